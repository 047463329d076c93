package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehmetkoksal-w/velo-assist/internal/prompt"
	"github.com/mehmetkoksal-w/velo-assist/internal/scaffold"
)

type newOptions struct {
	name  string
	props []string
	dir   string
	force bool
}

type scaffoldOp func(*scaffold.Scaffolder, context.Context, scaffold.Target) (*scaffold.Result, error)

func (a *app) newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create notifier, state and test files",
		Long: `Creates Velo source files from templates.

Without --name the command asks interactively, which needs a terminal.
Properties use the form name:type or name:type:defaultValue.

Examples:
  velo new notifier --name CounterNotifier --dir lib
  velo new pair --name Counter --prop count:int:0 --prop label:String`,
	}
	cmd.AddCommand(
		a.newSubcommand("notifier", "Create a notifier class", (*scaffold.Scaffolder).NewNotifier, false),
		a.newSubcommand("state", "Create a state class", (*scaffold.Scaffolder).NewState, true),
		a.newSubcommand("pair", "Create a notifier with its state class", (*scaffold.Scaffolder).NewNotifierWithState, true),
		a.newSubcommand("test", "Create a test file", (*scaffold.Scaffolder).NewTest, false),
	)
	return cmd
}

func (a *app) newSubcommand(use, short string, op scaffoldOp, withProps bool) *cobra.Command {
	var opts newOptions
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNew(cmd.Context(), op, opts)
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "class or test name")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "target directory (default: workspace root)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite existing files")
	if withProps {
		cmd.Flags().StringArrayVar(&opts.props, "prop", nil, "state property name:type[:default] (repeatable)")
	}
	return cmd
}

func (a *app) runNew(ctx context.Context, op scaffoldOp, opts newOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, root, err := a.loadConfig()
	if err != nil {
		return err
	}

	p, err := a.prompter(opts)
	if err != nil {
		return err
	}

	sc := scaffold.New(a.fs, p, cfg, a.log)
	res, err := op(sc, ctx, scaffold.Target{
		Directory:     a.resolve(opts.dir),
		WorkspaceRoot: root,
	})
	if errors.Is(err, scaffold.ErrCancelled) {
		fmt.Fprintln(a.errOut, "Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	for _, f := range res.Files {
		fmt.Fprintf(a.out, "created %s\n", f)
	}
	return nil
}

// prompter answers from flags when --name is given and falls back to the
// terminal otherwise.
func (a *app) prompter(opts newOptions) (prompt.Prompter, error) {
	if opts.name != "" {
		return &prompt.Answers{Name: opts.name, Properties: opts.props, Overwrite: opts.force}, nil
	}
	if !a.isTTY() {
		return nil, errors.New("--name is required when stdin is not a terminal")
	}
	return &prompt.Interactive{In: a.in, Out: a.errOut}, nil
}
