//go:build !darwin

package config

import (
	"os"
	"path/filepath"
)

// xdgDir returns $<env>/firmsfinder, falling back to ~/<fallback>/firmsfinder.
func xdgDir(env, fallback string) (string, bool) {
	dir := os.Getenv(env)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		dir = filepath.Join(home, fallback)
	}
	return filepath.Join(dir, "firmsfinder"), true
}

func defaultDataDir() string {
	if dir, ok := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")); ok {
		return dir
	}
	return "firmsfinder-data"
}

func configFilePath() string {
	if dir, ok := xdgDir("XDG_CONFIG_HOME", ".config"); ok {
		return filepath.Join(dir, "config.json")
	}
	return filepath.Join(".", "firmsfinder", "config.json")
}

func newPlatformBackend() ConfigBackend {
	return openJSONFile(configFilePath())
}
