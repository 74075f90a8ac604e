package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are loaded most-specific first; godotenv never overrides a
// variable that is already set, so earlier files win.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads .env files found in dir and returns the paths loaded.
func loadEnvFiles(dir string) []string {
	var loaded []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load environment file", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("path", path))
		loaded = append(loaded, path)
	}
	return loaded
}
