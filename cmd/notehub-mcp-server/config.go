package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blues/notehub-mcp-server/internal/log"
)

// Config is the YAML configuration file layout. Every field has a flag or
// environment-variable equivalent; the file exists for deployments that
// prefer declarative configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig controls how the server reaches the Notehub API.
type APIConfig struct {
	Host    string        `yaml:"host"`
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

var logLevels = map[string]log.Level{
	"none":    log.LevelNone,
	"error":   log.LevelError,
	"warning": log.LevelWarning,
	"info":    log.LevelInfo,
	"debug":   log.LevelDebug,
}

func loadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	if config.Logging.Level != "" {
		if _, ok := logLevels[config.Logging.Level]; !ok {
			return nil, fmt.Errorf("unknown logging level %q in %s", config.Logging.Level, filename)
		}
	}
	return &config, nil
}
