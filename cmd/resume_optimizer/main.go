// Package main provides the entry point for the resume optimizer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_optimizer",
	Short: "AI resume content optimizer",
	Long:  "Resume Optimizer rewrites resume sections through a polish/critique feedback loop, optionally targeted at a job posting, and renders the result to LaTeX or PDF.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
