// Package config loads CLI settings from shapefetch.yaml and SHAPEFETCH_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	shapefetch "github.com/reoring/shapefetch"
	"github.com/reoring/shapefetch/transport/httptransport"
)

// FileName is the config file looked up in the working directory.
const FileName = "shapefetch.yaml"

// Config holds CLI settings. Flags given on the command line win over these.
type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`

	// Field and Shape provide defaults for --field and --shape.
	Field string `mapstructure:"field"`
	Shape string `mapstructure:"shape"`

	MaxBytes      int64  `mapstructure:"max_bytes"`
	MaxDepth      int    `mapstructure:"max_depth"`
	DuplicateKeys string `mapstructure:"duplicate_keys"`
	Language      string `mapstructure:"language"`
}

// Load reads configuration. An explicit path must exist; with an empty path
// shapefetch.yaml is read from dir when present.
// Precedence (highest to lowest):
// 1. Environment variables (SHAPEFETCH_BASE_URL, SHAPEFETCH_TIMEOUT, ...)
// 2. Config file
// 3. Built-in defaults
func Load(path, dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("SHAPEFETCH")
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("user_agent", "shapefetch")
	v.SetDefault("field", "")
	v.SetDefault("shape", "")
	v.SetDefault("max_bytes", int64(8<<20))
	v.SetDefault("max_depth", 64)
	v.SetDefault("duplicate_keys", "ignore")
	v.SetDefault("language", "en")
}

// Transport returns the HTTP transport settings.
func (c *Config) Transport() httptransport.Config {
	return httptransport.Config{BaseURL: c.BaseURL, Timeout: c.Timeout, UserAgent: c.UserAgent}
}

// DecodeOpt returns the decode limits.
func (c *Config) DecodeOpt() (shapefetch.DecodeOpt, error) {
	opt := shapefetch.DecodeOpt{MaxBytes: c.MaxBytes, MaxDepth: c.MaxDepth}
	switch strings.ToLower(c.DuplicateKeys) {
	case "", "ignore":
		opt.OnDuplicateKey = shapefetch.Ignore
	case "warn":
		opt.OnDuplicateKey = shapefetch.Warn
	case "error":
		opt.OnDuplicateKey = shapefetch.Error
	default:
		return shapefetch.DecodeOpt{}, fmt.Errorf("duplicate_keys: unknown policy %q (want ignore, warn or error)", c.DuplicateKeys)
	}
	return opt, nil
}
