// Package main provides the entry point for the Skill Intelligence server
// and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "skill_intel",
	Short: "Skill Intelligence API server and CLI",
	Long:  "Skill Intelligence extracts skills from raw text via alias matching over a controlled vocabulary and classifies per-skill demand trends across aggregated snapshots.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
