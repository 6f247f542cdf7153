package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MacroTables/internal/catalog"
	"MacroTables/internal/model"
)

// IndicatorConfig overrides deployment-specific settings of one indicator.
type IndicatorConfig struct {
	SeriesID    string `yaml:"series_id"`
	Output      string `yaml:"output"`
	WindowYears int    `yaml:"window_years"`
}

// Config holds all application configuration.
type Config struct {
	FRED struct {
		BaseURL      string        `yaml:"base_url"`
		APIKey       string        `yaml:"api_key"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"fred"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Batch struct {
		Concurrent  bool `yaml:"concurrent"`
		PreviewRows int  `yaml:"preview_rows"`
	} `yaml:"batch"`
	Indicators map[string]IndicatorConfig `yaml:"indicators"`
	Schedule   struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env (if present), then config from a YAML file, then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		cfg.FRED.APIKey = v
	}
	if v := os.Getenv("FRED_BASE_URL"); v != "" {
		cfg.FRED.BaseURL = v
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.FRED.FetchTimeout = d
		}
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("BATCH_CONCURRENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Batch.Concurrent = b
		}
	}
	if v := os.Getenv("SCHEDULE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.FRED.FetchTimeout == 0 {
		cfg.FRED.FetchTimeout = 30 * time.Second
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "output"
	}
	if cfg.Batch.PreviewRows == 0 {
		cfg.Batch.PreviewRows = 12
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/macro_tables.db"
	}

	return cfg, nil
}

// Validate checks settings that are wrong regardless of the credential.
func (c *Config) Validate() error {
	if c.FRED.FetchTimeout < 0 {
		return fmt.Errorf("fred.fetch_timeout must not be negative")
	}
	if c.Batch.PreviewRows < 0 {
		return fmt.Errorf("batch.preview_rows must not be negative")
	}
	known := map[string]bool{
		catalog.InflationID:    true,
		catalog.GDPID:          true,
		catalog.InterestRateID: true,
		catalog.UnemploymentID: true,
	}
	for id, ic := range c.Indicators {
		if !known[id] {
			return fmt.Errorf("indicators.%s: unknown indicator", id)
		}
		if ic.WindowYears < 0 {
			return fmt.Errorf("indicators.%s.window_years must not be negative", id)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// RequireCredential reports a missing FRED API key as model.ErrConfig.
func (c *Config) RequireCredential() error {
	if strings.TrimSpace(c.FRED.APIKey) == "" {
		return fmt.Errorf("%w: FRED API key not found; set FRED_API_KEY in the environment or .env file", model.ErrConfig)
	}
	return nil
}

// Specs returns the indicator catalog with this config's overrides applied.
func (c *Config) Specs() []model.IndicatorSpec {
	overrides := make(map[string]catalog.Override, len(c.Indicators))
	for id, ic := range c.Indicators {
		overrides[id] = catalog.Override{
			SeriesID:    ic.SeriesID,
			Destination: ic.Output,
			WindowYears: ic.WindowYears,
		}
	}
	return catalog.All(overrides)
}
