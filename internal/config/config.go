package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"yieldpca/internal/yieldcurve"
)

// Config is the complete application configuration. It is loaded once at
// startup and treated as immutable afterwards; stages receive the pieces
// they need explicitly rather than reading ambient state.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	FRED     FREDConfig     `yaml:"fred" envconfig:"FRED"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// FREDConfig contains settings for the FRED data client.
type FREDConfig struct {
	APIKey       string  `yaml:"api_key" envconfig:"API_KEY"`
	BaseURL      string  `yaml:"base_url" envconfig:"BASE_URL"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateBurst    int     `yaml:"rate_burst" envconfig:"RATE_BURST"`
}

// AnalysisConfig contains the default pipeline configuration. Maturities
// defaults to the full canonical axis when empty.
type AnalysisConfig struct {
	Maturities        []string `yaml:"maturities" envconfig:"MATURITIES"`
	MissingDataPolicy string   `yaml:"missing_data_policy" envconfig:"MISSING_DATA_POLICY"`
	AllowLeadingTrim  bool     `yaml:"allow_leading_trim" envconfig:"ALLOW_LEADING_TRIM"`
	Standardization   string   `yaml:"standardization" envconfig:"STANDARDIZATION"`
	Components        int      `yaml:"components" envconfig:"COMPONENTS"`
}

// PathsConfig contains file system output locations.
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		FRED: FREDConfig{
			BaseURL:      "https://api.stlouisfed.org",
			RateLimitRPS: 10,
			RateBurst:    5,
		},
		Analysis: AnalysisConfig{
			MissingDataPolicy: "forward-fill",
			AllowLeadingTrim:  true,
			Standardization:   "demean",
			Components:        3,
		},
		Paths: PathsConfig{
			DataDir: "data",
		},
	}
}

// Load loads configuration from environment variables (prefix YIELDPCA)
// layered over an optional config.yaml in the working directory.
// Precedence: environment, then file, then built-in defaults.
func Load() (*Config, error) {
	return LoadFrom("config.yaml")
}

// LoadFrom loads configuration using the given YAML file path; a missing
// file is not an error.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Environment variables set explicitly take precedence over the file.
	if err := envconfig.Process("YIELDPCA", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.Components < 1 {
		return fmt.Errorf("component count must be positive: %d", c.Analysis.Components)
	}
	if _, err := c.ToAnalysisConfig(); err != nil {
		return err
	}
	return nil
}

// ToAnalysisConfig resolves the string-typed analysis settings into the
// pipeline's configuration structure.
func (c *Config) ToAnalysisConfig() (yieldcurve.AnalysisConfig, error) {
	policy, err := yieldcurve.ParseMissingPolicy(c.Analysis.MissingDataPolicy)
	if err != nil {
		return yieldcurve.AnalysisConfig{}, err
	}
	mode, err := yieldcurve.ParseStandardizeMode(c.Analysis.Standardization)
	if err != nil {
		return yieldcurve.AnalysisConfig{}, err
	}

	maturities := make([]yieldcurve.Maturity, 0, len(c.Analysis.Maturities))
	for _, label := range c.Analysis.Maturities {
		m, err := yieldcurve.ParseMaturity(label)
		if err != nil {
			return yieldcurve.AnalysisConfig{}, err
		}
		maturities = append(maturities, m)
	}
	if len(maturities) == 0 {
		maturities = yieldcurve.CanonicalMaturities
	}

	return yieldcurve.AnalysisConfig{
		Maturities:       maturities,
		Policy:           policy,
		AllowLeadingTrim: c.Analysis.AllowLeadingTrim,
		Mode:             mode,
		Components:       c.Analysis.Components,
	}, nil
}
