package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var unlockKeyFile string

func init() {
	unlockCmd.Flags().StringVar(&unlockKeyFile, "key-file", "", "exported key store to import before unlocking")
}

// resetUnlockCommandState resets the unlock command's global state for testing.
func resetUnlockCommandState() {
	unlockKeyFile = ""
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Register the filters and refresh the working tree",
	Long: `Registers the gitseal filters and re-smudges the working tree so files
checked out as ciphertext become readable.

With --key-file, the exported key store is merged into the local one first;
the import is durable before any filter is registered. Without it, unlock
relies on keys already resident from init, import-key, or unwrap-key.

Examples:
  # Unlock with resident keys
  gitseal unlock

  # Unlock a fresh clone with an exported key store
  gitseal unlock --key-file /secure/team.keys`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting unlock command")
		spinner, cleanup := startSpinner("Unlocking repository...", verbose)
		defer cleanup()

		result, err := workflows.Unlock(cmd.Context(), workflows.UnlockOptions{KeyFile: unlockKeyFile})
		if err != nil {
			if errors.Is(err, gserrors.ErrNotAGitRepository) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Not inside a git repository"
				return nil
			}
			if errors.Is(err, gserrors.ErrKeyVersionConflict) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Key file conflicts with the local store\n" +
					ui.Info.Sprint("→") + " The local key store was left untouched"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to unlock: %v", err)
		}

		msg := ui.Success.Sprint("✓") + " Repository unlocked"
		if result.ImportedVersions > 0 {
			msg += "\n" + ui.Info.Sprint("→") + fmt.Sprintf(" Imported %d new key version(s)", result.ImportedVersions)
		}
		if result.RefreshWarning != nil {
			Logger.Warnf("Working tree refresh failed: %v", result.RefreshWarning)
			msg += "\n" + ui.Warning.Sprint("!") + " Working tree refresh failed; run " +
				ui.Code.Sprint("git checkout HEAD -- .") + " manually"
		}
		spinner.FinalMSG = msg
		return nil
	},
}
