// Package main is the entry point for the photofind CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pickworth/photofind/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photofind",
		Short: "Semantic search server for a family photo archive",
		Long:  `Photofind indexes photo captions and keywords as embedding vectors and serves free-text semantic search over the archive.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(embedCmd())
	cmd.AddCommand(importCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	var paths []string
	if envFile != "" {
		paths = append(paths, envFile)
	}
	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
