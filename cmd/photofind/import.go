package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	photofind "github.com/pickworth/photofind"
	"github.com/pickworth/photofind/domain/photo"
	"github.com/pickworth/photofind/internal/log"
)

// manifestEntry is one photo record in an import manifest file.
type manifestEntry struct {
	ID       string         `json:"id"`
	Filename string         `json:"filename"`
	Caption  string         `json:"caption,omitempty"`
	Keywords []string       `json:"keywords,omitempty"`
	ImageURL string         `json:"image_url,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func importCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "import <manifest.json>",
		Short: "Import photos from a JSON manifest",
		Long: `Import photos from a JSON manifest.

The manifest is a JSON array of photo records:

  [
    {
      "id": "p-001",
      "filename": "beach-2019.jpg",
      "caption": "Kids building a sandcastle at Crane Beach",
      "keywords": ["beach", "summer", "sandcastle"],
      "image_url": "https://photos.example.com/p-001.jpg",
      "metadata": {"album": "Summer 2019"}
    }
  ]

Existing photos with matching IDs are replaced. Imported photos carry no
embedding until 'photofind embed' runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), envFile, args[0])
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runImport(ctx context.Context, envFile, manifestPath string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.Configure(cfg)
	slogger := logger.Slog()

	photos, err := readManifest(manifestPath)
	if err != nil {
		return err
	}

	client, err := photofind.NewFromConfig(cfg, slogger)
	if err != nil {
		return fmt.Errorf("create photofind client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close photofind client", slog.Any("error", err))
		}
	}()

	count, err := client.Photos.Import(ctx, photos)
	if err != nil {
		return fmt.Errorf("import photos: %w", err)
	}

	fmt.Printf("imported %d photos from %s\n", count, manifestPath)
	return nil
}

func readManifest(path string) ([]photo.Photo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	photos := make([]photo.Photo, len(entries))
	for i, e := range entries {
		photos[i] = photo.New(e.ID, e.Filename).
			WithCaption(e.Caption).
			WithKeywords(e.Keywords).
			WithImageURL(e.ImageURL).
			WithMetadata(e.Metadata)
	}
	return photos, nil
}
