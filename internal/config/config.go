// Package config loads ls-nightplan settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-nightplan/internal/catalog"
	"github.com/litescript/ls-nightplan/internal/ephem"
	"github.com/litescript/ls-nightplan/internal/fetch"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NIGHTPLAN_"

type Config struct {
	Catalog       CatalogConfig     `yaml:"catalog"`
	HTTP          HTTPConfig        `yaml:"http"`
	Observatories ObservatoryConfig `yaml:"observatories"`
	Schedule      ScheduleConfig    `yaml:"schedule"`
	Noise         NoiseConfig       `yaml:"noise"`
	Logging       LoggingConfig     `yaml:"logging"`
}

type CatalogConfig struct {
	SesameURL   string `yaml:"sesame_url"`
	SimbadURL   string `yaml:"simbad_url"`
	GaiaURL     string `yaml:"gaia_url"`
	HorizonsURL string `yaml:"horizons_url"`
	Offline     bool   `yaml:"offline"` // built-in catalog only, no network
	Concurrency int    `yaml:"concurrency"`
}

type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	Attempts  uint          `yaml:"attempts"`
	Rate      float64       `yaml:"rate"` // requests per second, 0 disables pacing
	Burst     int           `yaml:"burst"`
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

type ObservatoryConfig struct {
	File string `yaml:"file"` // extra sites merged over the built-in registry
}

type ScheduleConfig struct {
	Enabled bool   `yaml:"enabled"` // emit a JSON schedule on every run
	Dir     string `yaml:"dir"`
}

type NoiseConfig struct {
	Exposure time.Duration `yaml:"exposure"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// Load reads configPath (optional), applies NIGHTPLAN_* overrides and
// validates the result.
func Load(configPath string) (*Config, error) {
	config := &Config{}

	config.setDefaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.Catalog.SesameURL = catalog.DefaultSesameURL
	c.Catalog.SimbadURL = catalog.DefaultSimbadTAPURL
	c.Catalog.GaiaURL = catalog.DefaultGaiaTAPURL
	c.Catalog.HorizonsURL = ephem.HorizonsAPIURL
	c.Catalog.Concurrency = 4

	c.HTTP.Timeout = fetch.DefaultTimeout
	c.HTTP.Attempts = fetch.DefaultAttempts
	c.HTTP.Rate = fetch.DefaultRate
	c.HTTP.Burst = fetch.DefaultRate
	c.HTTP.CacheSize = fetch.DefaultCacheSize
	c.HTTP.CacheTTL = fetch.DefaultCacheTTL

	c.Schedule.Dir = "."
	c.Noise.Exposure = 30 * time.Second
	c.Logging.Level = "info"
}

func (c *Config) loadFromEnv() error {
	strs := map[string]*string{
		"SESAME_URL":    &c.Catalog.SesameURL,
		"SIMBAD_URL":    &c.Catalog.SimbadURL,
		"GAIA_URL":      &c.Catalog.GaiaURL,
		"HORIZONS_URL":  &c.Catalog.HorizonsURL,
		"OBSERVATORIES": &c.Observatories.File,
		"SCHEDULE_DIR":  &c.Schedule.Dir,
		"LOG_LEVEL":     &c.Logging.Level,
	}
	for key, dst := range strs {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv(EnvPrefix + "SCHEDULE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSCHEDULE: %w", EnvPrefix, err)
		}
		c.Schedule.Enabled = b
	}

	if v := os.Getenv(EnvPrefix + "OFFLINE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sOFFLINE: %w", EnvPrefix, err)
		}
		c.Catalog.Offline = b
	}

	if v := os.Getenv(EnvPrefix + "CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCONCURRENCY: %w", EnvPrefix, err)
		}
		c.Catalog.Concurrency = n
	}

	if v := os.Getenv(EnvPrefix + "HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sHTTP_TIMEOUT: %w", EnvPrefix, err)
		}
		c.HTTP.Timeout = d
	}

	if v := os.Getenv(EnvPrefix + "RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sRATE: %w", EnvPrefix, err)
		}
		c.HTTP.Rate = r
	}

	if v := os.Getenv(EnvPrefix + "EXPOSURE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sEXPOSURE: %w", EnvPrefix, err)
		}
		c.Noise.Exposure = d
	}

	return nil
}

// Validate checks the configuration for values the planner cannot use.
func (c *Config) Validate() error {
	if !c.Catalog.Offline {
		for name, u := range map[string]string{
			"sesame_url":   c.Catalog.SesameURL,
			"simbad_url":   c.Catalog.SimbadURL,
			"gaia_url":     c.Catalog.GaiaURL,
			"horizons_url": c.Catalog.HorizonsURL,
		} {
			if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
				return fmt.Errorf("catalog %s must be an http(s) URL, got %q", name, u)
			}
		}
	}

	if c.Catalog.Concurrency < 1 {
		return fmt.Errorf("catalog concurrency must be at least 1")
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}

	if c.HTTP.Attempts < 1 {
		return fmt.Errorf("http attempts must be at least 1")
	}

	if c.HTTP.Rate < 0 {
		return fmt.Errorf("http rate cannot be negative")
	}

	if c.HTTP.CacheSize < 0 {
		return fmt.Errorf("http cache size cannot be negative")
	}

	if c.Schedule.Enabled && strings.TrimSpace(c.Schedule.Dir) == "" {
		return fmt.Errorf("schedule dir is required when schedules are enabled")
	}

	if c.Noise.Exposure <= 0 {
		return fmt.Errorf("noise exposure must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log level must be 'debug', 'info', 'warn' or 'error'")
	}

	return nil
}

// FetchOptions returns the HTTP client settings as fetch options.
func (c *Config) FetchOptions() []fetch.Option {
	return []fetch.Option{
		fetch.WithTimeout(c.HTTP.Timeout),
		fetch.WithAttempts(c.HTTP.Attempts),
		fetch.WithRate(c.HTTP.Rate, c.HTTP.Burst),
		fetch.WithCache(c.HTTP.CacheSize, c.HTTP.CacheTTL),
	}
}
