package cmd

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	logger "github.com/gitseal/gitseal/internal/logging"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "gitseal",
		Short: "Transparent file encryption for git repositories",
		Long: `Gitseal keeps selected files encrypted in git history while leaving them
readable in your working tree.

It registers itself as a git clean/smudge/diff filter: files marked in
.gitattributes are encrypted on the way into the object store and decrypted
on checkout. Encryption is deterministic, so an unchanged file never shows
up as modified.

Getting started:
  1. gitseal init
  2. echo 'secrets.env filter=gitseal diff=gitseal' >> .gitattributes
  3. git add secrets.env

Share access with 'gitseal add-ssh-user' or 'gitseal export-key'.
Run 'gitseal help <command>' for details on a specific command.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing gitseal with verbose=%t, debug=%t", verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			banner := figure.NewColorFigure("gitseal", "alligator2", "green", true)
			banner.Print()
			fmt.Println()
			fmt.Println("Run 'gitseal --help' to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(lockCmd)
	RootCmd.AddCommand(unlockCmd)
	RootCmd.AddCommand(exportKeyCmd)
	RootCmd.AddCommand(importKeyCmd)
	RootCmd.AddCommand(rotateCmd)
	RootCmd.AddCommand(addSSHUserCmd)
	RootCmd.AddCommand(addGPGUserCmd)
	RootCmd.AddCommand(unwrapKeyCmd)
	RootCmd.AddCommand(cleanCmd)
	RootCmd.AddCommand(smudgeCmd)
	RootCmd.AddCommand(diffCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(purgeKeyCmd)
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetUnlockCommandState()
	resetRotateCommandState()
	resetAddSSHUserCommandState()
	resetAddGPGUserCommandState()
	resetUnwrapKeyCommandState()
	resetCleanCommandState()
	resetPurgeKeyCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
