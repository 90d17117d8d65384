package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:     "spex",
	Short:   "Voice-first assistive perception system",
	Long:    "speX fuses face, gesture, object and text recognition into spoken descriptions for a visually-impaired user.",
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "spex.toml", "Path to TOML configuration file")
}

func main() {
	// Optional .env bootstrap; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
