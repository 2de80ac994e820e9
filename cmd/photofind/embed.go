package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	photofind "github.com/pickworth/photofind"
	"github.com/pickworth/photofind/internal/log"
)

func embedCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Embed photos that have no vector yet",
		Long: `Embed photos that have no vector yet.

Builds the embedding text for each unembedded photo from its caption,
keywords and filename, batches the texts under the configured character
budget, and stores the resulting vectors. Requires an embedding endpoint
(EMBEDDING_ENDPOINT_API_KEY at minimum).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmbed(cmd.Context(), envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runEmbed(ctx context.Context, envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.Configure(cfg)
	slogger := logger.Slog()

	client, err := photofind.NewFromConfig(cfg, slogger)
	if err != nil {
		return fmt.Errorf("create photofind client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close photofind client", slog.Any("error", err))
		}
	}()

	report, err := client.Photos.EmbedMissing(ctx)
	if err != nil {
		return fmt.Errorf("embed photos: %w", err)
	}

	fmt.Printf("embedded %d photos (%d skipped, %d batches)\n",
		report.Embedded(), report.Skipped(), report.Batches())
	return nil
}
