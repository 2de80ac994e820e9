package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from .env files.
// Files are loaded in order, with earlier files taking precedence over
// later ones. Missing files are skipped silently.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// LoadConfig loads .env files and then the environment into an AppConfig.
func LoadConfig(dotenvPaths ...string) (AppConfig, error) {
	if err := LoadDotEnv(dotenvPaths...); err != nil {
		return AppConfig{}, err
	}
	env, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, fmt.Errorf("failed to process environment: %w", err)
	}
	return env.ToAppConfig(), nil
}
