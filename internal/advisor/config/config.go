package config

import (
	"time"

	"stock-advisor/pkg/config"
)

// AI selects the analysis provider and caps how often it may be called.
type AI struct {
	Provider            string `mapstructure:"provider"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// OpenRouter holds the configuration for the OpenRouter API.
type OpenRouter struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Cache selects the recommendation cache backend.
type Cache struct {
	Backend         string        `mapstructure:"backend"`
	Prefix          string        `mapstructure:"prefix"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Telegram holds configuration for the Telegram notifier. An empty bot token
// disables notifications.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// MarketData holds the configuration for the Yahoo Finance quote source.
type MarketData struct {
	MaxRequestPerMinute int `mapstructure:"max_request_per_minute"`
}

// News holds the RSS harvest configuration.
type News struct {
	Feeds              []string      `mapstructure:"feeds"`
	BlacklistedDomains []string      `mapstructure:"blacklisted_domains"`
	MaxConcurrent      int           `mapstructure:"max_concurrent"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	FetchContent       bool          `mapstructure:"fetch_content"`
}

// Refresh holds the cron schedules for the refresh service.
type Refresh struct {
	QuoteSchedule    string `mapstructure:"quote_schedule"`
	NewsSchedule     string `mapstructure:"news_schedule"`
	PrewarmSchedule  string `mapstructure:"prewarm_schedule"`
	MarketHoursOnly  bool   `mapstructure:"market_hours_only"`
	PrewarmTimeFrame string `mapstructure:"prewarm_time_frame"`
}

// ProviderKey holds one market-data provider's API key.
type ProviderKey struct {
	APIKey string `mapstructure:"api_key"`
}

// Config holds the full configuration for the advisor services.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`

	AI         AI         `mapstructure:"ai"`
	OpenRouter OpenRouter `mapstructure:"openrouter"`
	Gemini     Gemini     `mapstructure:"gemini"`
	Cache      Cache      `mapstructure:"cache"`
	Telegram   Telegram   `mapstructure:"telegram"`
	MarketData MarketData `mapstructure:"market_data"`
	News       News       `mapstructure:"news"`
	Refresh    Refresh    `mapstructure:"refresh"`

	// Proxy provider credentials. Each is read from its own env section so
	// deployments can set e.g. ALPHAVANTAGE_API_KEY directly.
	AlphaVantage ProviderKey `mapstructure:"alphavantage"`
	FMP          ProviderKey `mapstructure:"fmp"`
	Polygon      ProviderKey `mapstructure:"polygon"`
	IEX          ProviderKey `mapstructure:"iex"`
	RapidAPI     ProviderKey `mapstructure:"rapidapi"`
}

// Load loads the advisor configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
