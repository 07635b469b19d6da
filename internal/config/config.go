package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the gometric configuration shared by the CLI and the tool
// server.
type Config struct {
	Notation NotationConfig `mapstructure:"notation"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
}

// NotationConfig controls derivative shorthand. The max_order bound
// matches metric.MaxOrderLimit.
type NotationConfig struct {
	MaxOrder int  `mapstructure:"max_order" validate:"gte=0,lte=6"`
	UseDots  bool `mapstructure:"use_dots"`
}

// OutputConfig controls how the CLI renders results.
type OutputConfig struct {
	Format string `mapstructure:"format" validate:"required,oneof=text latex json yaml"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

// ServerConfig configures the HTTP tool server.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
}

// EnvPrefix prefixes environment overrides: GOMETRIC_NOTATION_MAX_ORDER
// overrides notation.max_order.
const EnvPrefix = "GOMETRIC"

var validate = validator.New()

// Load reads gometric.yaml from the working directory or
// $HOME/.config/gometric, or the file at path when path is not empty.
// A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("notation.max_order", 2)
	v.SetDefault("notation.use_dots", false)
	v.SetDefault("output.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("server.port", 8080)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gometric")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gometric"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
