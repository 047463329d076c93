package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehmetkoksal-w/velo-assist/internal/config"
)

func (a *app) initCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + config.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.rootPath()
			if err != nil {
				return err
			}
			wrote, err := config.WriteStarter(a.fs, root, force)
			if err != nil {
				return err
			}
			if !wrote {
				_, err = fmt.Fprintf(a.out, "%s already exists (use --force to overwrite)\n", config.Path(root))
				return err
			}
			_, err = fmt.Fprintf(a.out, "wrote %s\n", config.Path(root))
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
