package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/wkchen/steelwatch/internal/models"
)

// Config represents the complete application configuration.
type Config struct {
	Market   MarketConfig   `mapstructure:"market"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// MarketConfig holds the source adapter configuration.
type MarketConfig struct {
	// QuoteVariants is the fallback order for the primary commodity quote.
	QuoteVariants   []string      `mapstructure:"quote_variants"`
	InsiderURL      string        `mapstructure:"insider_url"`
	MoneyDJURL      string        `mapstructure:"moneydj_url"`
	YahooBaseURL    string        `mapstructure:"yahoo_base_url"`
	CommodityTicker string        `mapstructure:"commodity_ticker"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
}

// EngineConfig holds classification and fusion thresholds plus the basket.
type EngineConfig struct {
	PriceThreshold float64              `mapstructure:"price_threshold"`
	ShortWindow    int                  `mapstructure:"short_window"`
	MediumWindow   int                  `mapstructure:"medium_window"`
	LongWindow     int                  `mapstructure:"long_window"`
	TrendLookback  int                  `mapstructure:"trend_lookback"`
	AssetLookback  int                  `mapstructure:"asset_lookback"`
	Basket         []models.AssetConfig `mapstructure:"basket"`
}

// NotifyConfig holds the delivery sink configuration.
type NotifyConfig struct {
	Timeout        time.Duration  `mapstructure:"timeout"`
	MaxRetries     int            `mapstructure:"max_retries"`
	RetryDelayBase time.Duration  `mapstructure:"retry_delay_base"`
	Discord        DiscordConfig  `mapstructure:"discord"`
	Telegram       TelegramConfig `mapstructure:"telegram"`
}

// DiscordConfig holds Discord webhook delivery configuration.
type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Username   string `mapstructure:"username"`
	Enabled    bool   `mapstructure:"enabled"`
}

// TelegramConfig holds Telegram delivery configuration.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// StorageConfig holds the bulletin archive configuration.
type StorageConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	DBPath     string `mapstructure:"db_path"`
	MaxRecords int    `mapstructure:"max_records"`
}

// ScheduleConfig holds the optional cron schedule. An empty spec means run
// one cycle and exit.
type ScheduleConfig struct {
	Cron string `mapstructure:"cron"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("STEELWATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options. The
// defaults reproduce the constants the bulletin has always shipped with.
func setDefaults(v *viper.Viper) {
	v.SetDefault("market.quote_variants", []string{"insider"})
	v.SetDefault("market.insider_url", "https://markets.businessinsider.com/commodities/nickel-price")
	v.SetDefault("market.moneydj_url", "https://www.moneydj.com/z/ge/gec/gecb_nickel.djhtm")
	v.SetDefault("market.yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market.commodity_ticker", "NID=F")
	v.SetDefault("market.timeout", "10s")
	v.SetDefault("market.max_retries", 3)

	v.SetDefault("engine.price_threshold", 1.0)
	v.SetDefault("engine.short_window", 5)
	v.SetDefault("engine.medium_window", 20)
	v.SetDefault("engine.long_window", 60)
	v.SetDefault("engine.trend_lookback", 90)
	v.SetDefault("engine.asset_lookback", 5)
	v.SetDefault("engine.basket", []map[string]string{
		{"symbol": "2027.TW", "name": "Ta Chen"},
		{"symbol": "2034.TW", "name": "Yuen Chang"},
		{"symbol": "2030.TW", "name": "Chang Yuan"},
		{"symbol": "2015.TW", "name": "Feng Hsin"},
		{"symbol": "2025.TW", "name": "Chien Shing"},
	})

	v.SetDefault("notify.timeout", "15s")
	v.SetDefault("notify.max_retries", 3)
	v.SetDefault("notify.retry_delay_base", "1s")
	v.SetDefault("notify.discord.username", "Stainless Steel Strategy Bot")
	v.SetDefault("notify.discord.enabled", false)
	v.SetDefault("notify.telegram.enabled", false)

	v.SetDefault("storage.enabled", true)
	v.SetDefault("storage.db_path", "./data/steelwatch.db")
	v.SetDefault("storage.max_records", 500)

	v.SetDefault("schedule.cron", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

var knownVariants = map[string]bool{"insider": true, "moneydj": true, "yahoo": true}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if len(c.Market.QuoteVariants) == 0 {
		return fmt.Errorf("market.quote_variants must contain at least one variant")
	}
	for _, variant := range c.Market.QuoteVariants {
		if !knownVariants[variant] {
			return fmt.Errorf("market.quote_variants contains unknown variant %q", variant)
		}
	}
	if c.Market.InsiderURL == "" {
		return fmt.Errorf("market.insider_url is required")
	}
	if c.Market.YahooBaseURL == "" {
		return fmt.Errorf("market.yahoo_base_url is required")
	}
	if c.Market.Timeout < time.Second {
		return fmt.Errorf("market.timeout must be at least 1 second")
	}
	if c.Market.MaxRetries < 1 {
		return fmt.Errorf("market.max_retries must be at least 1")
	}

	if c.Engine.PriceThreshold < 0 {
		return fmt.Errorf("engine.price_threshold must not be negative")
	}
	if c.Engine.ShortWindow < 1 {
		return fmt.Errorf("engine.short_window must be at least 1")
	}
	if c.Engine.ShortWindow >= c.Engine.MediumWindow {
		return fmt.Errorf("engine.short_window must be less than engine.medium_window")
	}
	if c.Engine.MediumWindow >= c.Engine.LongWindow {
		return fmt.Errorf("engine.medium_window must be less than engine.long_window")
	}
	if c.Engine.TrendLookback < c.Engine.LongWindow {
		return fmt.Errorf("engine.trend_lookback must be at least engine.long_window")
	}
	if c.Engine.AssetLookback < 1 {
		return fmt.Errorf("engine.asset_lookback must be at least 1")
	}
	if len(c.Engine.Basket) == 0 {
		return fmt.Errorf("engine.basket must contain at least one asset")
	}
	for i, asset := range c.Engine.Basket {
		if asset.Symbol == "" {
			return fmt.Errorf("engine.basket[%d].symbol must not be empty", i)
		}
		if asset.Name == "" {
			return fmt.Errorf("engine.basket[%d].name must not be empty", i)
		}
	}

	if c.Notify.Discord.Enabled && c.Notify.Discord.WebhookURL == "" {
		return fmt.Errorf("notify.discord.webhook_url is required when discord is enabled")
	}
	if c.Notify.Telegram.Enabled {
		if c.Notify.Telegram.BotToken == "" {
			return fmt.Errorf("notify.telegram.bot_token is required when telegram is enabled")
		}
		if c.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("notify.telegram.chat_id is required when telegram is enabled")
		}
	}

	if c.Storage.Enabled {
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path is required when storage is enabled")
		}
		if c.Storage.MaxRecords < 1 {
			return fmt.Errorf("storage.max_records must be at least 1")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
