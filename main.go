package main

import (
	"os"

	"github.com/gitseal/gitseal/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
