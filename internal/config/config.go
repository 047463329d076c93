// Package config loads the per-workspace .velo.jsonc file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/mehmetkoksal-w/velo-assist/internal/jsonc"
	"github.com/mehmetkoksal-w/velo-assist/internal/templates"
	"github.com/mehmetkoksal-w/velo-assist/internal/validate"
	"github.com/mehmetkoksal-w/velo-assist/schemas"
)

// FileName is the configuration file looked up at the workspace root.
const FileName = ".velo.jsonc"

// SchemaVersion is written by velo init.
const SchemaVersion = "1.0.0"

//go:embed starter.jsonc
var starterTemplate string

// Defaults names the fallback notifier and state types.
type Defaults struct {
	NotifierType string `json:"notifierType,omitempty"`
	StateType    string `json:"stateType,omitempty"`
}

// Files controls where and how generated files are written.
type Files struct {
	Extension     string `json:"extension,omitempty"`
	TestDirectory string `json:"testDirectory,omitempty"`
}

// Scan selects the files velo scan analyzes.
type Scan struct {
	Include     []string `json:"include,omitempty"`
	Exclude     []string `json:"exclude,omitempty"`
	Concurrency int      `json:"concurrency,omitempty"`
}

// LSP tunes the language server.
type LSP struct {
	Diagnostics *bool `json:"diagnostics,omitempty"`
	DebounceMs  *int  `json:"debounceMs,omitempty"`
}

// Config mirrors .velo.jsonc.
type Config struct {
	SchemaVersion string   `json:"schemaVersion,omitempty"`
	Defaults      Defaults `json:"defaults"`
	Files         Files    `json:"files"`
	Scan          Scan     `json:"scan"`
	LSP           LSP      `json:"lsp"`
}

const (
	defaultDebounce    = 300 * time.Millisecond
	defaultConcurrency = 4
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SchemaVersion: SchemaVersion,
		Defaults: Defaults{
			NotifierType: "MyNotifier",
			StateType:    "MyState",
		},
		Files: Files{
			Extension:     ".dart",
			TestDirectory: "test",
		},
		Scan: Scan{
			Include:     []string{"lib/**/*.dart", "test/**/*.dart"},
			Exclude:     defaultExcludes(),
			Concurrency: defaultConcurrency,
		},
	}
}

func defaultExcludes() []string {
	return []string{
		".dart_tool/**",
		"build/**",
		".git/**",
		"**/*.g.dart",
		"**/*.freezed.dart",
	}
}

// Path returns the configuration file path for root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads root/.velo.jsonc from fsys, validates it and merges it over
// Default. A missing file yields Default.
func Load(fsys afero.Fs, root string) (*Config, error) {
	path := Path(root)
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := validate.Bytes(data, schemas.Config); err != nil {
		return nil, fmt.Errorf("%s invalid: %w", path, err)
	}

	var user Config
	if err := jsonc.Decode(data, &user); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return merge(Default(), &user), nil
}

func merge(base, user *Config) *Config {
	if user.SchemaVersion != "" {
		base.SchemaVersion = user.SchemaVersion
	}
	if user.Defaults.NotifierType != "" {
		base.Defaults.NotifierType = user.Defaults.NotifierType
	}
	if user.Defaults.StateType != "" {
		base.Defaults.StateType = user.Defaults.StateType
	}
	if user.Files.Extension != "" {
		base.Files.Extension = user.Files.Extension
	}
	if user.Files.TestDirectory != "" {
		base.Files.TestDirectory = user.Files.TestDirectory
	}
	if len(user.Scan.Include) > 0 {
		base.Scan.Include = mergeGlobs(nil, user.Scan.Include)
	}
	base.Scan.Exclude = mergeGlobs(base.Scan.Exclude, user.Scan.Exclude)
	if user.Scan.Concurrency > 0 {
		base.Scan.Concurrency = user.Scan.Concurrency
	}
	if user.LSP.Diagnostics != nil {
		base.LSP.Diagnostics = user.LSP.Diagnostics
	}
	if user.LSP.DebounceMs != nil {
		base.LSP.DebounceMs = user.LSP.DebounceMs
	}
	return base
}

// DiagnosticsEnabled reports whether the language server publishes diagnostics.
func (c *Config) DiagnosticsEnabled() bool {
	return c.LSP.Diagnostics == nil || *c.LSP.Diagnostics
}

// DebounceDelay is the delay between a document change and its diagnostics.
func (c *Config) DebounceDelay() time.Duration {
	if c.LSP.DebounceMs == nil {
		return defaultDebounce
	}
	return time.Duration(*c.LSP.DebounceMs) * time.Millisecond
}

// WriteStarter writes the starter configuration to root. An existing file is
// kept unless allowOverwrite is set; the returned bool reports a write.
func WriteStarter(fsys afero.Fs, root string, allowOverwrite bool) (bool, error) {
	path := Path(root)
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if exists && !allowOverwrite {
		return false, nil
	}
	contents := templates.Apply(starterTemplate, map[string]string{"schemaVersion": SchemaVersion})
	if err := fsys.MkdirAll(root, 0o755); err != nil {
		return false, fmt.Errorf("create %s: %w", root, err)
	}
	if err := afero.WriteFile(fsys, path, []byte(contents), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

func mergeGlobs(defaults, user []string) []string {
	seen := make(map[string]struct{})
	var merged []string
	appendIfMissing := func(globs []string) {
		for _, g := range globs {
			norm := normalizeGlob(g)
			if norm == "" {
				continue
			}
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = struct{}{}
			merged = append(merged, norm)
		}
	}
	appendIfMissing(defaults)
	appendIfMissing(user)
	return merged
}

func normalizeGlob(g string) string {
	trimmed := strings.TrimSpace(g)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.ReplaceAll(trimmed, "\\", "/")
	for strings.Contains(trimmed, "//") {
		trimmed = strings.ReplaceAll(trimmed, "//", "/")
	}
	return filepath.ToSlash(trimmed)
}
