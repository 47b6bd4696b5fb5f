// Package app provides the application initialization and wiring.
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/virtdock/internal/adapters/out/encoding"
	"github.com/bnema/virtdock/internal/adapters/out/telemetry"
	"github.com/bnema/virtdock/internal/domain"
)

// Config holds the application configuration.
type Config struct {
	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "console" or "json"
		File   struct {
			Enabled    bool   `mapstructure:"enabled"`
			Path       string `mapstructure:"path"`
			MaxSize    int    `mapstructure:"max_size"`    // megabytes
			MaxBackups int    `mapstructure:"max_backups"`
			MaxAge     int    `mapstructure:"max_age"` // days
		} `mapstructure:"file"`
	} `mapstructure:"logging"`

	Output struct {
		Format string `mapstructure:"format"` // "xml", "yaml" or "json"
	} `mapstructure:"output"`

	Convert struct {
		Jobs int `mapstructure:"jobs"`
	} `mapstructure:"convert"`

	Server struct {
		Addr            string        `mapstructure:"addr"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		RateLimit       struct {
			Enabled bool    `mapstructure:"enabled"`
			RPS     float64 `mapstructure:"rps"`
			Burst   int     `mapstructure:"burst"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"server"`

	Docker struct {
		Host string `mapstructure:"host"` // empty uses DOCKER_HOST or the default socket
	} `mapstructure:"docker"`

	Telemetry telemetry.Config `mapstructure:"telemetry"`
}

// LoadConfig reads the configuration from file, environment and defaults.
func LoadConfig(configPath string) (Config, error) {
	_, cfg, err := initConfig(configPath)
	return cfg, err
}

// initConfig loads configuration from file.
func initConfig(configPath string) (*viper.Viper, Config, error) {
	v := viper.New()

	if err := loadConfig(v, configPath); err != nil {
		return nil, Config{}, fmt.Errorf("%w: %w", domain.ErrConfigLoadFailed, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, Config{}, fmt.Errorf("%w: failed to unmarshal config: %w", domain.ErrConfigLoadFailed, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, Config{}, err
	}

	return v, cfg, nil
}

func loadConfig(v *viper.Viper, configPath string) error {
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.path", "")
	v.SetDefault("logging.file.max_size", 50)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age", 28)
	v.SetDefault("output.format", "xml")
	v.SetDefault("convert.jobs", 4)
	v.SetDefault("server.addr", "127.0.0.1:8089")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rps", 20)
	v.SetDefault("server.rate_limit.burst", 40)
	v.SetDefault("docker.host", "")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.interval", "1m")

	ConfigureViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("VIRTDOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}

func (c Config) validate() error {
	if _, err := encoding.New(c.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %w", domain.ErrInvalidConfig, err)
	}
	if c.Convert.Jobs < 1 {
		return fmt.Errorf("%w: convert.jobs must be at least 1, got %d", domain.ErrInvalidConfig, c.Convert.Jobs)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", domain.ErrInvalidConfig, c.Logging.Format)
	}
	if c.Logging.File.Enabled && c.Logging.File.Path == "" {
		return fmt.Errorf("%w: logging.file.path is required when file logging is enabled", domain.ErrInvalidConfig)
	}
	if rl := c.Server.RateLimit; rl.Enabled && (rl.RPS <= 0 || rl.Burst < 1) {
		return fmt.Errorf("%w: server.rate_limit needs rps > 0 and burst >= 1, got %g/%d", domain.ErrInvalidConfig, rl.RPS, rl.Burst)
	}
	return nil
}
