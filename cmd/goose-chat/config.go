package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds goose-chat settings. Precedence is flag > environment >
// config file > default.
type Config struct {
	ServerURL  string `yaml:"server_url"`
	SecretKey  string `yaml:"secret_key"`
	WorkingDir string `yaml:"working_dir"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "goose-chat", "config.yaml")
}

// loadConfig reads the config file at path (missing files are fine) and
// applies environment overrides.
func loadConfig(path string) (Config, error) {
	cfg := Config{
		ServerURL:  "http://localhost:3000",
		WorkingDir: "/tmp",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No config file is a valid setup.
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("GOOSE_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("GOOSE_SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}

	return cfg, nil
}
