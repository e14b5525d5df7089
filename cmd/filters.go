package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gitseal/gitseal/internal/workflows"
)

// The filter endpoints are invoked by git, not by people: stdout carries
// file content, so nothing human-facing (spinners, banners, colors) may
// ever print there. A non-zero exit makes git abort the operation for that
// file, which is exactly the fail-closed behavior the clean path needs.

var cleanPassthrough bool

func init() {
	cleanCmd.Flags().BoolVar(&cleanPassthrough, "passthrough-without-key", false,
		"emit input unchanged instead of failing when no key is available")
}

// resetCleanCommandState resets the clean command's global state for testing.
func resetCleanCommandState() {
	cleanPassthrough = false
}

var cleanCmd = &cobra.Command{
	Use:          "clean",
	Short:        "Git clean filter endpoint (stdin to stdout)",
	Long:         `Encrypts stdin to stdout. Registered by 'gitseal init' as the clean filter; not intended for direct use.`,
	Args:         cobra.NoArgs,
	Hidden:       true,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return workflows.RunClean(cmd.Context(), os.Stdout, os.Stdin, workflows.FilterOptions{
			PassthroughWithoutKey: cleanPassthrough,
		})
	},
}

var smudgeCmd = &cobra.Command{
	Use:          "smudge",
	Short:        "Git smudge filter endpoint (stdin to stdout)",
	Long:         `Decrypts stdin to stdout. Registered by 'gitseal init' as the smudge filter; not intended for direct use.`,
	Args:         cobra.NoArgs,
	Hidden:       true,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return workflows.RunSmudge(cmd.Context(), os.Stdout, os.Stdin)
	},
}

var diffCmd = &cobra.Command{
	Use:          "diff FILE",
	Short:        "Git textconv endpoint",
	Long:         `Renders sealed content for git diff: plaintext when a key is available, a sentinel line otherwise. Git passes the file to convert as the single argument.`,
	Args:         cobra.ExactArgs(1),
	Hidden:       true,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return workflows.RunDiff(cmd.Context(), os.Stdout, f)
	},
}
