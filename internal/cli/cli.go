// Package cli wires the velo command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mehmetkoksal-w/velo-assist/internal/config"
	"github.com/mehmetkoksal-w/velo-assist/internal/logger"
	"github.com/mehmetkoksal-w/velo-assist/internal/project"
	"github.com/mehmetkoksal-w/velo-assist/internal/prompt"
)

// app carries the global flags and the process environment shared by all
// commands.
type app struct {
	verbose      bool
	debug        bool
	root         string
	rootExplicit bool

	fs     afero.Fs
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	isTTY  func() bool
	log    *zap.Logger
}

func newApp() *app {
	return &app{
		fs:     afero.NewOsFs(),
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		isTTY:  func() bool { return prompt.IsTerminal(os.Stdin) },
		log:    zap.NewNop(),
	}
}

// Run executes the velo command line with args.
func Run(args []string) error {
	cmd := newApp().rootCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "velo",
		Short: "Velo state management tooling for Dart projects",
		Long: `velo scaffolds Velo notifiers, states and tests, analyzes Dart sources
for Velo usage, proposes wrap and conversion edits and serves the same
features to editors over the Language Server Protocol.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logger.LevelOff
			switch {
			case a.debug:
				level = logger.LevelDebug
			case a.verbose:
				level = logger.LevelInfo
			}
			a.log = logger.New(a.errOut, level)
			a.rootExplicit = cmd.Flags().Changed("root")
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "show progress information")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "show debugging information")
	root.PersistentFlags().StringVar(&a.root, "root", ".", "workspace root (default: nearest directory with pubspec.yaml)")

	root.AddCommand(
		a.newCommand(),
		a.analyzeCommand(),
		a.actionsCommand(),
		a.scanCommand(),
		a.lspCommand(),
		a.initCommand(),
		a.versionCommand(),
	)
	return root
}

// rootPath returns the absolute workspace root. Without --root the nearest
// enclosing Dart package wins. Paths on a memory file system are used as given.
func (a *app) rootPath() (string, error) {
	root := a.root
	if _, ok := a.fs.(*afero.OsFs); ok {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("resolve root: %w", err)
		}
		root = abs
	}
	if !a.rootExplicit {
		if found, ok := project.FindRoot(a.fs, root); ok {
			a.log.Debug("workspace root found", zap.String("root", found))
			return found, nil
		}
	}
	return root, nil
}

// loadConfig reads the workspace configuration.
func (a *app) loadConfig() (*config.Config, string, error) {
	root, err := a.rootPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(a.fs, root)
	if err != nil {
		return nil, "", err
	}
	a.log.Debug("config loaded", zap.String("root", root))
	return cfg, root, nil
}

// resolve makes a command-line path absolute against the working directory.
func (a *app) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, ok := a.fs.(*afero.OsFs); !ok {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
