package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehmetkoksal-w/velo-assist/internal/project"
	"github.com/mehmetkoksal-w/velo-assist/internal/scan"
)

func (a *app) scanCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Analyze every Dart file of the workspace",
		Long: `Analyzes the files selected by scan.include and scan.exclude in
.velo.jsonc and reports files that use Velo types without importing the
library.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := a.loadConfig()
			if err != nil {
				return err
			}

			report, err := scan.Run(cmd.Context(), a.fs, root, scan.OptionsFrom(cfg, a.log))
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}

			if asJSON {
				return writeJSON(a.out, report)
			}

			profile, err := project.Detect(a.fs, root)
			if err != nil {
				return err
			}
			if profile.Name != "" {
				fmt.Fprintf(a.out, "package %s\n", profile.Name)
				if !profile.Velo {
					fmt.Fprintf(a.out, "warning: %s does not depend on %s\n", project.PubspecFile, project.VeloPackage)
				}
			}
			missing := report.MissingImports()
			for _, f := range missing {
				fmt.Fprintf(a.out, "%s: Velo types used without import (%d bindings)\n", f.Path, len(f.Facts.Bindings))
			}
			bindings := 0
			for _, f := range report.Files {
				bindings += len(f.Facts.Bindings)
			}
			_, err = fmt.Fprintf(a.out, "scanned %d files: %d bindings, %d missing imports\n", len(report.Files), bindings, len(missing))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON report")
	return cmd
}
