package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var addGPGUserAlias string

func init() {
	addGPGUserCmd.Flags().StringVar(&addGPGUserAlias, "alias", "", "label for the recipient's wrapped blob")
}

// resetAddGPGUserCommandState resets the add-gpg-user command's global state for testing.
func resetAddGPGUserCommandState() {
	addGPGUserAlias = ""
}

var addGPGUserCmd = &cobra.Command{
	Use:   "add-gpg-user GPG_ID",
	Short: "Wrap the key store for a GPG recipient",
	Long: `Encrypts the exported key store for a GPG key (fingerprint, key ID, or
email known to the local keyring) by shelling out to the gpg binary, and
stores the blob under the recipient's alias.

GPG support is compiled in only when gitseal is built with the gpg build
tag; other builds report it as disabled.

Examples:
  gitseal add-gpg-user alice@example.com
  gitseal add-gpg-user 0xDEADBEEF --alias alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add-gpg-user command")
		spinner, cleanup := startSpinner("Wrapping key store...", verbose)
		defer cleanup()

		result, err := workflows.AddGPGUser(cmd.Context(), workflows.AddGPGUserOptions{
			KeyID: args[0],
			Alias: addGPGUserAlias,
		})
		if err != nil {
			if errors.Is(err, gserrors.ErrGPGSupportDisabled) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " This build has no GPG support\n" +
					ui.Info.Sprint("→") + " Rebuild with " + ui.Code.Sprint("-tags gpg") + " to enable it"
				return nil
			}
			if errors.Is(err, gserrors.ErrInvalidRecipient) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " gpg could not encrypt for " + ui.Highlight.Sprint(args[0]) + "\n" +
					ui.Info.Sprint("→") + " Check that the key is in your local keyring"
				return nil
			}
			if errors.Is(err, gserrors.ErrNoKeyAvailable) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " No key store to share\n" +
					ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("gitseal init") + " first"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to add GPG user: %v", err)
		}

		msg := ui.Success.Sprint("✓") + " Added recipient " + ui.Highlight.Sprint(result.Alias) + "\n" +
			ui.Info.Sprint("→") + " Blob: " + ui.Path.Sprint(result.BlobPath)
		if result.RemotePath != "" {
			msg += "\n" + ui.Info.Sprint("→") + " Mirrored to " + ui.Path.Sprint(result.RemotePath)
		}
		if result.SyncWarning != nil {
			Logger.Warnf("S3 sync failed: %v", result.SyncWarning)
			msg += "\n" + ui.Warning.Sprint("!") + " S3 mirror failed; the local blob is intact"
		}
		spinner.FinalMSG = msg
		return nil
	},
}
