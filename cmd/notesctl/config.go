package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "NOTESCTL"

// Config is read from NOTESCTL_* variables.
type Config struct {
	APIURL    string        `envconfig:"API_URL" default:"http://localhost:5000"`
	TokenFile string        `envconfig:"TOKEN_FILE"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot locate config dir, set %s_TOKEN_FILE: %w", envPrefix, err)
		}
		cfg.TokenFile = filepath.Join(dir, "notesctl", "token")
	}
	return cfg, nil
}
