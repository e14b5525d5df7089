package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var unwrapKeyIdentity string

func init() {
	unwrapKeyCmd.Flags().StringVar(&unwrapKeyIdentity, "identity", "", "SSH private key to unwrap with (required)")
	_ = unwrapKeyCmd.MarkFlagRequired("identity")
}

// resetUnwrapKeyCommandState resets the unwrap-key command's global state for testing.
func resetUnwrapKeyCommandState() {
	unwrapKeyIdentity = ""
}

// promptPassphrase reads a passphrase without echo. The prompt goes to
// stderr so it never mixes with piped stdout.
func promptPassphrase() ([]byte, error) {
	fmt.Fprint(os.Stderr, "Enter passphrase for SSH key: ")
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	return passphrase, nil
}

var unwrapKeyCmd = &cobra.Command{
	Use:   "unwrap-key BLOB",
	Short: "Unwrap a key blob and merge it into the local store",
	Long: `Decrypts a wrapped key blob produced by add-ssh-user with your SSH
private key and merges the recovered key store into this repository's local
store. Passphrase-protected keys are prompted for interactively.

Typical bootstrap for a new collaborator:

  git clone <repo>
  gitseal unwrap-key .git/gitseal/keys/age/alice.age --identity ~/.ssh/id_ed25519
  gitseal unlock

Examples:
  gitseal unwrap-key alice.age --identity ~/.ssh/id_ed25519`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting unwrap-key command")
		spinner, cleanup := startSpinner("Unwrapping key blob...", verbose)
		defer cleanup()

		result, err := workflows.UnwrapKey(cmd.Context(), workflows.UnwrapKeyOptions{
			BlobPath:     args[0],
			IdentityPath: unwrapKeyIdentity,
			Passphrase:   promptPassphrase,
		})
		if err != nil {
			if errors.Is(err, gserrors.ErrUnwrapFailed) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Could not unwrap " + ui.Path.Sprint(args[0]) + "\n" +
					ui.Info.Sprint("→") + " The blob was wrapped for a different key, or is corrupted"
				return nil
			}
			if errors.Is(err, gserrors.ErrKeyVersionConflict) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Unwrapped store conflicts with the local one\n" +
					ui.Info.Sprint("→") + " The local key store was left untouched"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to unwrap: %v", err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") +
			fmt.Sprintf(" Merged %d key version(s), %d resident", result.AddedVersions, result.TotalVersions) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("gitseal unlock") + " to start decrypting"
		return nil
	},
}
