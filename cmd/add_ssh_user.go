package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var addSSHUserAlias string

func init() {
	addSSHUserCmd.Flags().StringVar(&addSSHUserAlias, "alias", "", "label for the recipient's wrapped blob")
}

// resetAddSSHUserCommandState resets the add-ssh-user command's global state for testing.
func resetAddSSHUserCommandState() {
	addSSHUserAlias = ""
}

var addSSHUserCmd = &cobra.Command{
	Use:   "add-ssh-user PUBKEY_PATH",
	Short: "Wrap the key store for an SSH recipient",
	Long: `Encrypts the exported key store for an SSH public key (ed25519 or RSA,
authorized_keys format) using the age format, and stores the blob under the
recipient's alias in the gitseal state directory.

The recipient recovers the keys with 'gitseal unwrap-key' and their private
key, or with plain age/rage tooling. When [sync_s3] is configured in
.gitseal.toml the blob is also mirrored to the bucket; a failed upload is a
warning, never an error.

Examples:
  gitseal add-ssh-user ~/collected/alice.pub
  gitseal add-ssh-user ci.pub --alias deploy-bot`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add-ssh-user command")
		spinner, cleanup := startSpinner("Wrapping key store...", verbose)
		defer cleanup()

		result, err := workflows.AddSSHUser(cmd.Context(), workflows.AddSSHUserOptions{
			PublicKeyPath: args[0],
			Alias:         addSSHUserAlias,
		})
		if err != nil {
			if errors.Is(err, gserrors.ErrInvalidRecipient) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " " + ui.Path.Sprint(args[0]) +
					" is not a supported SSH public key\n" +
					ui.Info.Sprint("→") + " ed25519 and RSA keys in authorized_keys format are supported"
				return nil
			}
			if errors.Is(err, gserrors.ErrNoKeyAvailable) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " No key store to share\n" +
					ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("gitseal init") + " first"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to add SSH user: %v", err)
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
