package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Weather    WeatherConfig    `yaml:"weather" mapstructure:"weather"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
	Serve      ServeConfig      `yaml:"serve" mapstructure:"serve"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Advisor    AdvisorConfig    `yaml:"advisor" mapstructure:"advisor"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// CatalogConfig selects where lake records come from.
type CatalogConfig struct {
	Source         string  `yaml:"source" mapstructure:"source"`
	File           string  `yaml:"file" mapstructure:"file"`
	Seed           uint64  `yaml:"seed" mapstructure:"seed"`
	JitterPct      float64 `yaml:"jitter_pct" mapstructure:"jitter_pct"`
	FTPURL         string  `yaml:"ftp_url" mapstructure:"ftp_url"`
	FTPTimeoutSecs int     `yaml:"ftp_timeout_secs" mapstructure:"ftp_timeout_secs"`
}

// ScoringConfig selects the weighting/classification preset.
type ScoringConfig struct {
	Preset string `yaml:"preset" mapstructure:"preset"`
}

// StoreConfig configures the catalog database backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// WeatherConfig holds the best-effort weather collaborator settings.
// With no API key the client serves documented fallback constants.
type WeatherConfig struct {
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	City        string  `yaml:"city" mapstructure:"city"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ExportConfig configures ranked-queue export output.
type ExportConfig struct {
	OutBase string `yaml:"out_base" mapstructure:"out_base"`
	Format  string `yaml:"format" mapstructure:"format"`
}

// ServeConfig configures the read-only HTTP API.
type ServeConfig struct {
	Addr        string   `yaml:"addr" mapstructure:"addr"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// NotionConfig holds Notion publisher credentials.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	DatabaseID string `yaml:"database_id" mapstructure:"database_id"`
}

// SalesforceConfig holds Salesforce JWT auth settings for the case
// publisher.
type SalesforceConfig struct {
	Domain         string `yaml:"domain" mapstructure:"domain"`
	ConsumerKey    string `yaml:"consumer_key" mapstructure:"consumer_key"`
	Username       string `yaml:"username" mapstructure:"username"`
	KeyPath        string `yaml:"key_path" mapstructure:"key_path"`
	SeverityCutoff string `yaml:"severity_cutoff" mapstructure:"severity_cutoff"`
}

// AdvisorConfig holds Anthropic API settings for the advisory brief.
type AdvisorConfig struct {
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from the default search paths and environment.
func Load() (*Config, error) {
	return load("")
}

// LoadFile reads configuration from an explicit file path and environment.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("neerchitra")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.neerchitra")
	}

	// Environment
	v.SetEnvPrefix("NEERCHITRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.source", "static")
	v.SetDefault("catalog.jitter_pct", 15.0)
	v.SetDefault("catalog.ftp_timeout_secs", 15)
	v.SetDefault("scoring.preset", "basic")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "neerchitra.db")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.city", "Chennai")
	v.SetDefault("weather.timeout_secs", 5)
	v.SetDefault("weather.rate_per_sec", 1.0)
	v.SetDefault("export.out_base", "neerchitra-rankings")
	v.SetDefault("export.format", "csv")
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.cors_origins", []string{"*"})
	v.SetDefault("salesforce.domain", "https://login.salesforce.com")
	v.SetDefault("salesforce.severity_cutoff", "Critical")
	v.SetDefault("advisor.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("advisor.max_tokens", 1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration carries everything the named
// command mode needs. Missing values are accumulated so the caller sees
// every problem at once.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "rank", "export":
		if c.Catalog.Source == "file" && c.Catalog.File == "" {
			errs = append(errs, "catalog.file is required for the file source")
		}
		if c.Catalog.Source == "ftp" && c.Catalog.FTPURL == "" {
			errs = append(errs, "catalog.ftp_url is required for the ftp source")
		}
	case "store":
		if c.Store.Driver == "" {
			errs = append(errs, "store.driver is required")
		}
		if c.Store.DSN == "" {
			errs = append(errs, "store.dsn is required")
		}
	case "serve":
		if c.Serve.Addr == "" {
			errs = append(errs, "serve.addr is required")
		}
	case "publish-notion":
		if c.Notion.Token == "" {
			errs = append(errs, "notion.token is required")
		}
		if c.Notion.DatabaseID == "" {
			errs = append(errs, "notion.database_id is required")
		}
	case "publish-salesforce":
		if c.Salesforce.ConsumerKey == "" {
			errs = append(errs, "salesforce.consumer_key is required")
		}
		if c.Salesforce.Username == "" {
			errs = append(errs, "salesforce.username is required")
		}
		if c.Salesforce.KeyPath == "" {
			errs = append(errs, "salesforce.key_path is required")
		}
	case "advise":
		// Advisor runs offline without a key; nothing is strictly required.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Catalog.JitterPct < 0 || c.Catalog.JitterPct > 100 {
		errs = append(errs, fmt.Sprintf("catalog.jitter_pct must be between 0 and 100, got %.1f", c.Catalog.JitterPct))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
