// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SourcesConfig names the three dashboard source locations (local paths or
// URLs) and the encoding fallback order used while parsing them. The core
// never computes these; they are externally supplied.
type SourcesConfig struct {
	Activity      string   `yaml:"activity" mapstructure:"activity"`
	Firmographics string   `yaml:"firmographics" mapstructure:"firmographics"`
	Contacts      string   `yaml:"contacts" mapstructure:"contacts"`
	Encodings     []string `yaml:"encodings" mapstructure:"encodings"`
}

// StoreConfig configures the snapshot cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DashboardConfig holds derivation tunables.
type DashboardConfig struct {
	TopAccountsLimit int      `yaml:"top_accounts_limit" mapstructure:"top_accounts_limit"`
	DateColumns      []string `yaml:"date_columns" mapstructure:"date_columns"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ENGAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.encodings", []string{"utf-8", "latin1", "iso-8859-1"})
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "engage.db")
	v.SetDefault("dashboard.top_accounts_limit", 10)
	v.SetDefault("dashboard.date_columns", []string{"Activity Date", "Activity_DateOnly", "Date"})
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
