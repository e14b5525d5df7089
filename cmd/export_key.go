package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var exportKeyCmd = &cobra.Command{
	Use:   "export-key OUTPUT",
	Short: "Serialize the key store to a portable file",
	Long: `Writes the full key store (all versions) to OUTPUT with 0600
permissions. The file is the same binary format as the on-disk store and can
be fed to 'gitseal import-key' or 'gitseal unlock --key-file' in another
clone.

Treat the output like a private key: anyone holding it can read every sealed
file in the repository's history.

Examples:
  gitseal export-key /secure/team.keys`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting export-key command")
		spinner, cleanup := startSpinner("Exporting key store...", verbose)
		defer cleanup()

		result, err := workflows.ExportKey(cmd.Context(), workflows.ExportKeyOptions{OutputPath: args[0]})
		if err != nil {
			if errors.Is(err, gserrors.ErrNoKeyAvailable) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " No key store to export\n" +
					ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("gitseal init") + " first"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to export: %v", err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" Exported %d key version(s)", result.Versions) + "\n" +
			ui.Info.Sprint("→") + " " + ui.Path.Sprint(result.OutputPath) + "\n" +
			ui.Warning.Sprint("!") + " Keep this file out of the repository"
		return nil
	},
}
