package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration shared by the scraper and the dashboard.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Scraper
	BaseURL           string        `mapstructure:"BASE_URL"`
	Keywords          []string      `mapstructure:"KEYWORDS"`
	Headless          bool          `mapstructure:"HEADLESS"`
	UserAgent         string        `mapstructure:"USER_AGENT"`
	SearchTimeout     time.Duration `mapstructure:"SEARCH_TIMEOUT"`
	ResultsTimeout    time.Duration `mapstructure:"RESULTS_TIMEOUT"`
	PageTimeout       time.Duration `mapstructure:"PAGE_TIMEOUT"`
	TypeDelay         time.Duration `mapstructure:"TYPE_DELAY"`
	DropdownDelay     time.Duration `mapstructure:"DROPDOWN_DELAY"`
	SettleDelay       time.Duration `mapstructure:"SETTLE_DELAY"`
	NoResultsSelector string        `mapstructure:"NO_RESULTS_SELECTOR"`
	OutputPath        string        `mapstructure:"OUTPUT_PATH"`
	NoFeeOutputPath   string        `mapstructure:"NO_FEE_OUTPUT_PATH"`
	PushgatewayURL    string        `mapstructure:"PUSHGATEWAY_URL"`

	// Storage
	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Dashboard
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	DataSource      string        `mapstructure:"DATA_SOURCE"`
	DataFiles       []string      `mapstructure:"DATA_FILES"`
	ViewCacheTTL    time.Duration `mapstructure:"VIEW_CACHE_TTL"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`
	SessionCapacity int           `mapstructure:"SESSION_CAPACITY"`
}

const (
	DataSourceFile     = "file"
	DataSourcePostgres = "postgres"
)

// DefaultKeywords are the two program searches the dataset is built from.
var DefaultKeywords = []string{
	"วิศวกรรมคอมพิวเตอร์",
	"วิศวกรรมปัญญาประดิษฐ์",
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":     "LOG_LEVEL",
	"base-url":      "BASE_URL",
	"keyword":       "KEYWORDS",
	"headless":      "HEADLESS",
	"output":        "OUTPUT_PATH",
	"no-fee-output": "NO_FEE_OUTPUT_PATH",
	"port":          "SERVER_PORT",
	"data-source":   "DATA_SOURCE",
	"data-file":     "DATA_FILES",
}

// Load reads configuration from an optional .env file, the environment and,
// when given, command line flags. Flags win over the environment.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine; the environment alone is enough in production.
	_ = v.ReadInConfig()

	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %q: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("BASE_URL", "https://mytcas.com")
	v.SetDefault("KEYWORDS", DefaultKeywords)
	v.SetDefault("HEADLESS", true)
	v.SetDefault("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36")
	v.SetDefault("SEARCH_TIMEOUT", 10*time.Second)
	v.SetDefault("RESULTS_TIMEOUT", 15*time.Second)
	v.SetDefault("PAGE_TIMEOUT", 30*time.Second)
	v.SetDefault("TYPE_DELAY", 100*time.Millisecond)
	v.SetDefault("DROPDOWN_DELAY", 1500*time.Millisecond)
	v.SetDefault("SETTLE_DELAY", 2*time.Second)
	v.SetDefault("NO_RESULTS_SELECTOR", "")
	v.SetDefault("OUTPUT_PATH", "tcas_data.xlsx")
	v.SetDefault("NO_FEE_OUTPUT_PATH", "tcas_no_fee.xlsx")
	v.SetDefault("PUSHGATEWAY_URL", "")

	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SERVER_PORT", "8501")
	v.SetDefault("DATA_SOURCE", DataSourceFile)
	v.SetDefault("DATA_FILES", []string{"tcas_data.xlsx"})
	v.SetDefault("VIEW_CACHE_TTL", 10*time.Minute)
	v.SetDefault("SESSION_TTL", 30*time.Minute)
	v.SetDefault("SESSION_CAPACITY", 1024)
}

// Validate rejects configurations neither binary can run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid BASE_URL %q", c.BaseURL)
	}
	if len(c.Keywords) == 0 {
		return errors.New("at least one keyword is required")
	}
	switch c.DataSource {
	case DataSourceFile:
		if len(c.DataFiles) == 0 {
			return errors.New("DATA_FILES must name at least one table when DATA_SOURCE=file")
		}
	case DataSourcePostgres:
		if c.PostgresURL == "" {
			return errors.New("POSTGRES_URL is required when DATA_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource)
	}
	if c.SessionCapacity <= 0 {
		return fmt.Errorf("SESSION_CAPACITY must be positive, got %d", c.SessionCapacity)
	}
	return nil
}
