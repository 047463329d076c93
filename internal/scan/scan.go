// Package scan runs document analysis over every Dart file of a project.
package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mehmetkoksal-w/velo-assist/internal/analysis"
	"github.com/mehmetkoksal-w/velo-assist/internal/config"
	"github.com/mehmetkoksal-w/velo-assist/internal/fsutil"
)

// Options selects files and bounds the fan-out. Zero values fall back to
// config.Default.
type Options struct {
	Include     []string
	Exclude     []string
	Concurrency int
	Logger      *zap.Logger
}

// OptionsFrom builds scan options from a loaded configuration.
func OptionsFrom(cfg *config.Config, log *zap.Logger) Options {
	return Options{
		Include:     cfg.Scan.Include,
		Exclude:     cfg.Scan.Exclude,
		Concurrency: cfg.Scan.Concurrency,
		Logger:      log,
	}
}

// FileReport holds the facts of one file.
type FileReport struct {
	Path          string                 `json:"path"`
	Hash          string                 `json:"hash"`
	Facts         analysis.DocumentFacts `json:"facts"`
	MissingImport bool                   `json:"missingImport"`
}

// Report is the result of one scan.
type Report struct {
	ScanID      string       `json:"scanId"`
	Root        string       `json:"root"`
	StartedAt   time.Time    `json:"startedAt"`
	CompletedAt time.Time    `json:"completedAt"`
	Files       []FileReport `json:"files"`
}

// MissingImports returns the files that reference Velo types without
// importing the library.
func (r *Report) MissingImports() []FileReport {
	var out []FileReport
	for _, f := range r.Files {
		if f.MissingImport {
			out = append(out, f)
		}
	}
	return out
}

func (o Options) withDefaults() Options {
	def := config.Default().Scan
	if len(o.Include) == 0 {
		o.Include = def.Include
	}
	if len(o.Exclude) == 0 {
		o.Exclude = def.Exclude
	}
	if o.Concurrency <= 0 {
		o.Concurrency = def.Concurrency
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Run analyzes every matching file under root. Files are reported in path
// order regardless of completion order.
func Run(ctx context.Context, fsys afero.Fs, root string, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	report := &Report{
		ScanID:    uuid.New().String(),
		Root:      root,
		StartedAt: time.Now().UTC(),
	}

	paths, err := fsutil.ListFiles(fsys, root, opts.Include, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	opts.Logger.Debug("scan started",
		zap.String("scanId", report.ScanID),
		zap.String("root", root),
		zap.Int("files", len(paths)))

	files := make([]FileReport, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, rel := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := afero.ReadFile(fsys, filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("read %s: %w", rel, err)
			}
			facts := analysis.Analyze(string(data))
			files[i] = FileReport{Path: rel, Hash: fsutil.Hash(data), Facts: facts, MissingImport: facts.MissingImport()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Files = files
	report.CompletedAt = time.Now().UTC()
	opts.Logger.Debug("scan completed",
		zap.String("scanId", report.ScanID),
		zap.Duration("elapsed", report.CompletedAt.Sub(report.StartedAt)))
	return report, nil
}
