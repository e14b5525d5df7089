package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var purgeKeyForce bool

func init() {
	purgeKeyCmd.Flags().BoolVar(&purgeKeyForce, "force", false, "skip confirmation prompt")
}

// resetPurgeKeyCommandState resets the purge-key command's global state for testing.
func resetPurgeKeyCommandState() {
	purgeKeyForce = false
}

var purgeKeyCmd = &cobra.Command{
	Use:   "purge-key",
	Short: "Irreversibly delete the key store",
	Long: `Deletes the repository's key store. This is the only gitseal operation
that destroys key material: unless you hold an export or a wrapped blob,
every file sealed with the purged versions becomes permanently unreadable.

Examples:
  gitseal purge-key --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting purge-key command")
		spinner, cleanup := startSpinner("Purging key store...", verbose)
		defer cleanup()

		if !purgeKeyForce {
			ok := confirm(spinner, "This permanently deletes all key versions for this repository.",
				"Files sealed in history become unreadable without an exported copy.",
				"There is no undo.")
			if !ok {
				spinner.FinalMSG = ui.Info.Sprint("→") + " Purge cancelled"
				return nil
			}
		}

		result, err := workflows.PurgeKey(cmd.Context(), workflows.PurgeKeyOptions{})
		if err != nil {
			if errors.Is(err, gserrors.ErrNoKeyAvailable) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " No key store to purge"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to purge: %v", err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") +
			fmt.Sprintf(" Purged %d key version(s)", result.PurgedVersions) + "\n" +
			ui.Warning.Sprint("!") + " Sealed history is unreadable without an exported key"
		return nil
	},
}
