package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the key store and register the git filters",
	Long: `Generates key version 0 under the repository's git directory and
registers the gitseal clean/smudge/diff drivers in the repo-local git config,
leaving the repository unlocked.

Mark files for encryption in .gitattributes:

  secrets.env filter=gitseal diff=gitseal

Init never overwrites an existing key store.

Examples:
  # Initialize gitseal in the current repository
  gitseal init`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		spinner, cleanup := startSpinner("Initializing gitseal...", verbose)
		defer cleanup()

		result, err := workflows.Init(cmd.Context(), workflows.InitOptions{})
		if err != nil {
			if errors.Is(err, gserrors.ErrAlreadyInitialized) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Gitseal is already initialized\n" +
					ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("gitseal status") + " to inspect the key store"
				return nil
			}
			if errors.Is(err, gserrors.ErrNotAGitRepository) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Not inside a git repository"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to initialize: %v", err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Gitseal initialized\n" +
			ui.Info.Sprint("→") + " Key store: " + ui.Path.Sprint(result.KeystorePath) + "\n" +
			ui.Info.Sprint("→") + " Mark files in " + ui.Code.Sprint(".gitattributes") + " with " +
			ui.Code.Sprint("filter=gitseal diff=gitseal")
		Logger.Infof("Initialized key store at %s with version %d", result.KeystorePath, result.KeyVersion)
		return nil
	},
}
