// Package scaffold creates notifier, state and test files from templates.
//
// Every operation gathers all answers and resolves every overwrite conflict
// before the first file is written, so a declined prompt leaves the file
// system untouched.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mehmetkoksal-w/velo-assist/internal/config"
	"github.com/mehmetkoksal-w/velo-assist/internal/naming"
	"github.com/mehmetkoksal-w/velo-assist/internal/prompt"
	"github.com/mehmetkoksal-w/velo-assist/internal/templates"
)

// ErrCancelled is returned when the user declines a prompt.
var ErrCancelled = errors.New("cancelled")

// Prompt texts.
const (
	notifierPrompt      = "Enter Velo class name"
	notifierPlaceholder = "CounterNotifier"
	statePrompt         = "Enter State class name"
	statePlaceholder    = "CounterState"
	basePrompt          = `Enter base name (e.g., "Counter" will create CounterNotifier and CounterState)`
	basePlaceholder     = "Counter"
	testPrompt          = "Enter test name (without _test suffix)"
	testPlaceholder     = "counter_notifier"
	propertyPrompt      = `Enter property (format: "name:type:defaultValue" or "name:type"). Press ESC to finish.`
	propertyPlaceholder = "count:int:0"
	morePrompt          = "Add more properties?"
)

// Target locates where new files go.
type Target struct {
	Directory     string
	ActiveFile    string
	WorkspaceRoot string
}

// Result lists the files written and the one to show the user.
type Result struct {
	Files []string `json:"files"`
	Open  string   `json:"open"`
}

// Scaffolder writes generated files to FS, asking Prompter for inputs.
type Scaffolder struct {
	FS       afero.Fs
	Prompter prompt.Prompter
	Config   *config.Config
	Logger   *zap.Logger
}

// New returns a Scaffolder. A nil cfg selects config.Default and a nil log
// discards output.
func New(fsys afero.Fs, p prompt.Prompter, cfg *config.Config, log *zap.Logger) *Scaffolder {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scaffolder{FS: fsys, Prompter: p, Config: cfg, Logger: log}
}

type file struct {
	path    string
	content string
}

// NewNotifier creates <dir>/<snake_name>.dart holding a notifier class.
func (s *Scaffolder) NewNotifier(ctx context.Context, target Target) (*Result, error) {
	dir, err := s.directory(target)
	if err != nil {
		return nil, err
	}
	name, err := s.askName(ctx, notifierPrompt, notifierPlaceholder, prompt.ValidateNotifierName)
	if err != nil {
		return nil, err
	}

	path := s.filePath(dir, name)
	return s.write(ctx, path, file{path: path, content: templates.NotifierClass(name, "")})
}

// NewState creates a state class with the properties the user enters.
func (s *Scaffolder) NewState(ctx context.Context, target Target) (*Result, error) {
	dir, err := s.directory(target)
	if err != nil {
		return nil, err
	}
	name, err := s.askName(ctx, statePrompt, statePlaceholder, prompt.ValidateStateName)
	if err != nil {
		return nil, err
	}
	props, err := s.askProperties(ctx)
	if err != nil {
		return nil, err
	}

	path := s.filePath(dir, name)
	return s.write(ctx, path, file{path: path, content: templates.StateClass(name, props)})
}

// NewNotifierWithState creates <Base>State and <Base>Notifier files, the
// notifier importing the state by relative path.
func (s *Scaffolder) NewNotifierWithState(ctx context.Context, target Target) (*Result, error) {
	dir, err := s.directory(target)
	if err != nil {
		return nil, err
	}
	base, err := s.askName(ctx, basePrompt, basePlaceholder, prompt.ValidateBaseName)
	if err != nil {
		return nil, err
	}
	props, err := s.askProperties(ctx)
	if err != nil {
		return nil, err
	}

	notifierName := base + "Notifier"
	stateName := base + "State"
	statePath := s.filePath(dir, stateName)
	notifierPath := s.filePath(dir, notifierName)
	stateImport, err := naming.RelativeImport(notifierPath, statePath)
	if err != nil {
		return nil, fmt.Errorf("resolve state import: %w", err)
	}

	return s.write(ctx, notifierPath,
		file{path: statePath, content: templates.StateClass(stateName, props)},
		file{path: notifierPath, content: templates.NotifierClass(notifierName, stateImport)},
	)
}

// NewTest creates <dir>/<testDirectory>/<name>_test.dart.
func (s *Scaffolder) NewTest(ctx context.Context, target Target) (*Result, error) {
	dir, err := s.directory(target)
	if err != nil {
		return nil, err
	}
	name, err := s.askName(ctx, testPrompt, testPlaceholder, prompt.ValidateTestName)
	if err != nil {
		return nil, err
	}

	testDir := filepath.Join(dir, s.Config.Files.TestDirectory)
	path := s.filePath(testDir, name+"_test")
	return s.write(ctx, path, file{path: path, content: templates.TestFile(name)})
}

func (s *Scaffolder) directory(target Target) (string, error) {
	return naming.TargetDirectory(target.Directory, target.ActiveFile, target.WorkspaceRoot)
}

func (s *Scaffolder) filePath(dir, name string) string {
	return naming.FilePath(dir, name, s.Config.Files.Extension)
}

func (s *Scaffolder) askName(ctx context.Context, text, placeholder string, validate prompt.Validator) (string, error) {
	name, ok, err := s.Prompter.Input(ctx, prompt.InputRequest{
		ID:          prompt.IDName,
		Prompt:      text,
		Placeholder: placeholder,
		Validate:    validate,
	})
	if err != nil {
		return "", err
	}
	if !ok || name == "" {
		return "", ErrCancelled
	}
	return name, nil
}

// askProperties collects properties until the user enters nothing, declines
// or picks Finish.
func (s *Scaffolder) askProperties(ctx context.Context) ([]templates.Property, error) {
	var props []templates.Property
	for {
		value, ok, err := s.Prompter.Input(ctx, prompt.InputRequest{
			ID:          prompt.IDProperty,
			Prompt:      propertyPrompt,
			Placeholder: propertyPlaceholder,
			Validate:    prompt.ValidateProperty,
		})
		if err != nil {
			return nil, err
		}
		if !ok || value == "" {
			return props, nil
		}
		p, ok := prompt.ParseProperty(value)
		if !ok {
			return nil, &prompt.ValidationError{Field: prompt.IDProperty, Value: value, Message: prompt.MsgPropertyFormat}
		}
		props = append(props, p)

		choice, ok, err := s.Prompter.Choose(ctx, prompt.ChoiceRequest{
			ID:      prompt.IDMore,
			Message: morePrompt,
			Options: []string{prompt.ChoiceAddProperty, prompt.ChoiceFinish},
		})
		if err != nil {
			return nil, err
		}
		if !ok || choice != prompt.ChoiceAddProperty {
			return props, nil
		}
	}
}

// confirmOverwrite asks once per existing file and fails with ErrCancelled
// unless every answer is Yes.
func (s *Scaffolder) confirmOverwrite(ctx context.Context, files []file) error {
	for _, f := range files {
		exists, err := afero.Exists(s.FS, f.path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", f.path, err)
		}
		if !exists {
			continue
		}
		choice, ok, err := s.Prompter.Choose(ctx, prompt.ChoiceRequest{
			ID:      prompt.IDOverwrite,
			Message: fmt.Sprintf("File %s already exists. Overwrite?", filepath.Base(f.path)),
			Options: []string{prompt.ChoiceYes, prompt.ChoiceNo},
		})
		if err != nil {
			return err
		}
		if !ok || choice != prompt.ChoiceYes {
			return ErrCancelled
		}
	}
	return nil
}

func (s *Scaffolder) write(ctx context.Context, open string, files ...file) (*Result, error) {
	if err := s.confirmOverwrite(ctx, files); err != nil {
		return nil, err
	}

	res := &Result{Open: open}
	for _, f := range files {
		if err := s.FS.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Dir(f.path), err)
		}
		if err := afero.WriteFile(s.FS, f.path, []byte(f.content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.path, err)
		}
		s.Logger.Info("file written", zap.String("path", f.path))
		res.Files = append(res.Files, f.path)
	}
	return res, nil
}
