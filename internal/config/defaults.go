package config

import (
	"os"
	"path/filepath"
)

func DefaultConfig() Config {
	dataDir := ".slumber"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".slumber")
	}

	return Config{
		Storage: StorageConfig{
			DBPath: filepath.Join(dataDir, "slumber.db"),
		},
		Stats: StatsConfig{
			DefaultDays: 7,
		},
		Display: DisplayConfig{
			RefreshMS: 1000,
		},
		Analysis: AnalysisConfig{
			Endpoint:       "https://api.anthropic.com/v1/messages",
			Model:          "claude-3-5-haiku-latest",
			MaxTokens:      1024,
			TimeoutSeconds: 60,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "slumber.log"),
		},
	}
}
