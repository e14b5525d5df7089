package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var rotateForce bool

func init() {
	rotateCmd.Flags().BoolVar(&rotateForce, "force", false, "skip confirmation prompt")
}

// resetRotateCommandState resets the rotate command's global state for testing.
func resetRotateCommandState() {
	rotateForce = false
}

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Append a new key version",
	Long: `Generates a new highest key version and appends it to the key store.

Nothing is re-encrypted: files sealed under older versions stay readable,
and only files staged after the rotation pick up the new key. Recipients
added before the rotation hold a wrapped store without the new version; run
'gitseal add-ssh-user' again for each of them.

Examples:
  # Rotate with confirmation prompt
  gitseal rotate

  # Rotate without confirmation prompt
  gitseal rotate --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rotate command")
		spinner, cleanup := startSpinner("Rotating key...", verbose)
		defer cleanup()

		if !rotateForce {
			ok := confirm(spinner, "This appends a new key version used for all future encryption.",
				"Existing recipients keep access to old versions only.",
				"Re-run add-ssh-user / add-gpg-user to share the new version.")
			if !ok {
				spinner.FinalMSG = ui.Info.Sprint("→") + " Rotation cancelled"
				return nil
			}
		}

		result, err := workflows.Rotate(cmd.Context(), workflows.RotateOptions{})
		if err != nil {
			if errors.Is(err, gserrors.ErrNoKeyAvailable) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " No key store to rotate\n" +
					ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("gitseal init") + " first"
				return nil
			}
			if errors.Is(err, gserrors.ErrStoreLockContention) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Key store is locked by another gitseal process"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to rotate: %v", err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") +
			fmt.Sprintf(" Rotated to key version %d (%d version(s) resident)", result.NewVersion, result.TotalVersions)
		return nil
	},
}
