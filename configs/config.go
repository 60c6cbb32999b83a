package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the CLI configuration assembled by viper from the
// config file, environment, and flags.
type Config struct {
	Verbose      bool   `mapstructure:"verbose"`
	Quiet        bool   `mapstructure:"quiet"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// AnalysisConfig contains analysis settings
type AnalysisConfig struct {
	MaxDuration time.Duration `mapstructure:"max_duration"` // Reject longer recordings; 0 disables the limit
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	switch config.OutputFormat {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (expected text, json, or yaml)", config.OutputFormat)
	}

	if config.Analysis.MaxDuration < 0 {
		return fmt.Errorf("analysis max duration cannot be negative")
	}

	return nil
}
