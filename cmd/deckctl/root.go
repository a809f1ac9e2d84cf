package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "deckctl",
		Short: "A CLI for the PromptDeck admin API",
		Long: `deckctl talks to the PromptDeck admin API through the same resilient
transport the desktop console uses: classified errors, retry with
backoff, rate-limit cooldowns, and keychain-backed sessions.

Quick start:
  deckctl auth login               # Store a session in the keychain
  deckctl health                   # Diagnose connectivity and API health
  deckctl call GET /prompts        # Raw API passthrough`,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML/JSON configuration file")

	cmd.AddCommand(authCommand())
	cmd.AddCommand(healthCommand())
	cmd.AddCommand(callCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
