package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the trip planner.
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	Server     ServerConfig     `mapstructure:"server"`
	Generation GenerationConfig `mapstructure:"generation"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// GenerationConfig contains text-generation endpoint settings.
type GenerationConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	MaxLength int           `mapstructure:"max_length"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig contains monitoring settings.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func (g GenerationConfig) Validate() error {
	if strings.TrimSpace(g.Endpoint) == "" {
		return fmt.Errorf("generation.endpoint is required")
	}
	if g.MaxLength <= 0 {
		return fmt.Errorf("generation.max_length must be > 0")
	}
	return nil
}

// LoadConfig reads configuration from the given file, or from the standard
// search paths when path is empty. Every key has a default, so running with
// no config file at all is fine; TRIPPLANNER_* environment variables
// override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")

	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("generation.endpoint", "https://api-inference.huggingface.co/models/gpt2")
	v.SetDefault("generation.max_length", 300)
	v.SetDefault("generation.timeout", 15*time.Second)
	v.SetDefault("telemetry.enabled", true)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("TRIPPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// missing file from the search paths is fine, defaults apply;
		// an explicitly named file must exist
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Generation.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
