package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var importKeyCmd = &cobra.Command{
	Use:   "import-key INPUT",
	Short: "Merge an exported key store into the local one",
	Long: `Merges the key versions in INPUT into the local key store. Versions
already present with identical bytes are skipped; a version present with
different bytes aborts the whole import and leaves the local store
byte-identical.

Examples:
  gitseal import-key /secure/team.keys`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting import-key command")
		spinner, cleanup := startSpinner("Importing key store...", verbose)
		defer cleanup()

		result, err := workflows.ImportKey(cmd.Context(), workflows.ImportKeyOptions{InputPath: args[0]})
		if err != nil {
			if errors.Is(err, gserrors.ErrKeyVersionConflict) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Import conflicts with the local store\n" +
					ui.Info.Sprint("→") + " A version exists in both stores with different key bytes\n" +
					ui.Info.Sprint("→") + " The local key store was left untouched"
				return nil
			}
			if errors.Is(err, gserrors.ErrInvalidKeyStore) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " " + ui.Path.Sprint(args[0]) + " is not a gitseal key store"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to import: %v", err)
		}

		if result.AddedVersions == 0 {
			spinner.FinalMSG = ui.Success.Sprint("✓") + " Nothing to import; all versions already present"
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") +
			fmt.Sprintf(" Imported %d new key version(s), %d total", result.AddedVersions, result.TotalVersions)
		return nil
	},
}
