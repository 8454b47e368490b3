// Package config loads application configuration from file and
// environment, and initializes the global logger.
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
	Twitter TwitterConfig `yaml:"twitter" mapstructure:"twitter"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Filter  FilterConfig  `yaml:"filter" mapstructure:"filter"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// TwitterConfig holds the search API credentials and client tuning.
type TwitterConfig struct {
	APIKey       string  `yaml:"api_key" mapstructure:"api_key"`
	APISecret    string  `yaml:"api_secret" mapstructure:"api_secret"`
	AccessToken  string  `yaml:"access_token" mapstructure:"access_token"`
	AccessSecret string  `yaml:"access_secret" mapstructure:"access_secret"`
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	PageSize     int     `yaml:"page_size" mapstructure:"page_size"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// SearchConfig holds the query list and per-query item cap.
type SearchConfig struct {
	Queries    []string `yaml:"queries" mapstructure:"queries"`
	MaxResults int      `yaml:"max_results" mapstructure:"max_results"`
}

// FilterConfig holds the profile filter terms.
type FilterConfig struct {
	Terms []string `yaml:"terms" mapstructure:"terms"`
}

// OutputConfig configures where and how results are written.
type OutputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig configures the optional run archive.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// defaultQueries are the stock dialect searches. -filter:retweets keeps
// retweet echoes out of the result set.
var defaultQueries = []string{
	"southern accent -filter:retweets",
	"new york accent -filter:retweets",
	"californian accent -filter:retweets",
}

// defaultFilterTerms are the stock DC-area profile terms.
var defaultFilterTerms = []string{
	"dc", "DMV", "georgetown", "gtown", "GU", "37th and O", "202",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TWEETSIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credentials default empty so the env-only path
	// (TWEETSIFT_TWITTER_API_KEY etc.) still binds on unmarshal.
	v.SetDefault("twitter.api_key", "")
	v.SetDefault("twitter.api_secret", "")
	v.SetDefault("twitter.access_token", "")
	v.SetDefault("twitter.access_secret", "")
	v.SetDefault("twitter.base_url", "https://api.twitter.com/1.1")
	v.SetDefault("twitter.page_size", 100)
	v.SetDefault("twitter.rate_limit_rps", 1.0)
	v.SetDefault("search.queries", defaultQueries)
	v.SetDefault("search.max_results", 1000)
	v.SetDefault("filter.terms", defaultFilterTerms)
	v.SetDefault("output.path", "your_tweets.csv")
	v.SetDefault("output.format", "csv")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "tweetsift.db")
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
