// Package main provides the hh_harvester command-line crawler.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hh_harvester",
	Short: "hh.ru IT vacancy harvester",
	Long: "hh_harvester crawls IT vacancy listings on hh.ru, derives a fixed set of typed features " +
		"per posting and writes one row per vacancy to CSV, SQLite or PostgreSQL.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
