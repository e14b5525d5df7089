package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Remove the filter registration",
	Long: `Deregisters the gitseal filters from the repo-local git config. Checkouts
after locking leave ciphertext in the working tree; the key store stays on
disk, so a plain 'gitseal unlock' restores access.

Locking an already locked repository is a no-op.

Examples:
  gitseal lock`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting lock command")
		spinner, cleanup := startSpinner("Locking repository...", verbose)
		defer cleanup()

		result, err := workflows.Lock(cmd.Context(), workflows.LockOptions{})
		if err != nil {
			if errors.Is(err, gserrors.ErrNotAGitRepository) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Not inside a git repository"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to lock: %v", err)
		}

		if result.WasLocked {
			spinner.FinalMSG = ui.Success.Sprint("✓") + " Repository was already locked"
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Repository locked\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("gitseal unlock") + " to restore filtering"
		return nil
	},
}
