package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/repostate"
	"github.com/gitseal/gitseal/internal/ui"
	"github.com/gitseal/gitseal/internal/workflows"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report lock state, key versions, and recipients",
	Long: `Shows whether the repository is locked or unlocked, which key versions
are resident (and which one new encryptions use), and the recipients that
hold a wrapped copy of the key store.

Examples:
  gitseal status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")
		spinner, cleanup := startSpinner("Inspecting repository...", verbose)
		defer cleanup()

		result, err := workflows.Status(cmd.Context(), workflows.StatusOptions{})
		if err != nil {
			if errors.Is(err, gserrors.ErrNotAGitRepository) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Not inside a git repository"
				return nil
			}
			return Logger.ErrorfAndReturn("failed to get status: %v", err)
		}

		var b strings.Builder
		if result.State == repostate.Unlocked {
			b.WriteString(ui.Success.Sprint("✓") + " Repository is " + ui.Highlight.Sprint("unlocked") + "\n")
		} else {
			b.WriteString(ui.Warning.Sprint("●") + " Repository is " + ui.Highlight.Sprint("locked") + "\n")
			if !result.KeystorePresent {
				b.WriteString(ui.Info.Sprint("→") + " No key store; run " + ui.Code.Sprint("gitseal init") +
					" or " + ui.Code.Sprint("gitseal unwrap-key") + "\n")
			} else if !result.FiltersInstalled {
				b.WriteString(ui.Info.Sprint("→") + " Keys resident; run " + ui.Code.Sprint("gitseal unlock") + "\n")
			}
		}

		if len(result.Versions) > 0 {
			b.WriteString("\nKey versions:\n")
			for _, v := range result.Versions {
				marker := "  "
				if v.Active {
					marker = ui.Success.Sprint("* ")
				}
				created := v.CreatedAt.UTC().Format("2006-01-02 15:04")
				b.WriteString(fmt.Sprintf("  %sv%d  (created %s)\n", marker, v.Version, created))
			}
			if result.PinnedVersion != nil {
				b.WriteString(ui.Info.Sprint("→") +
					fmt.Sprintf(" Encryption pinned to v%d in %s\n", *result.PinnedVersion, ui.Code.Sprint(".gitseal.toml")))
			}
		}

		if len(result.Recipients) > 0 {
			b.WriteString("\nRecipients:\n")
			for _, r := range result.Recipients {
				b.WriteString(fmt.Sprintf("  %s  (%s)\n", ui.Highlight.Sprint(r.Alias), r.Scheme))
			}
		}

		spinner.FinalMSG = b.String()
		return nil
	},
}
