// Package main provides the lifeofword CLI: the passage proxy server and
// terminal tools for planning and reading bilingual passages.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "lifeofword",
	Short:        "Parallel bilingual Bible reader",
	Long:         "lifeofword splits a reading reference into API-sized segments, fetches the English text through a rate-limited proxy, and pairs every verse with the local Korean corpus.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
