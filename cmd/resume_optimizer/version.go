package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the resume_optimizer version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Printf("resume_optimizer %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
