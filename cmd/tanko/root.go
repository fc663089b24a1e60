package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tanko",
	Short: "Manga library importer",
	Long: `tanko - manga library importer

Pairs mokuro OCR sidecars with their images, extracts archives,
and files everything into a local library for reading.

Run 'tanko init' to create a config, then 'tanko import <path>'.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: auto-discover)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("tanko {{.Version}}\n")
}
