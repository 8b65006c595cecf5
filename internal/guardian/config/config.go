package config

import (
	"time"

	"golang-portfolio-guardian/pkg/config"
)

// Guardian holds monitoring and order lifecycle settings.
type Guardian struct {
	// MonitorInterval is the per-user scan cadence.
	MonitorInterval time.Duration `mapstructure:"monitor_interval"`
	// OrderLockTTL bounds the Redis creation lock held around the
	// open-order check.
	OrderLockTTL time.Duration `mapstructure:"order_lock_ttl"`
	// RestoreGraceDelay is applied to auto-execution timers whose
	// deadline already passed when the service restarts.
	RestoreGraceDelay time.Duration `mapstructure:"restore_grace_delay"`
	// AppBaseURL prefixes the confirm/cancel action links in emails.
	AppBaseURL string `mapstructure:"app_base_url"`
}

// MarketData configures the simulated market data provider.
type MarketData struct {
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	QuoteCacheTTL       time.Duration `mapstructure:"quote_cache_ttl"`
	Seed                int64         `mapstructure:"seed"`
}

// Brokerage configures the simulated execution venue.
type Brokerage struct {
	RejectionRate      float64 `mapstructure:"rejection_rate"`
	PartialFillRate    float64 `mapstructure:"partial_fill_rate"`
	MaxSlippagePercent float64 `mapstructure:"max_slippage_percent"`
	Seed               int64   `mapstructure:"seed"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// SMTP holds configuration for the email notifier.
type SMTP struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Config holds the full configuration for the guardian service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Guardian   Guardian        `mapstructure:"guardian"`
	MarketData MarketData      `mapstructure:"market_data"`
	Brokerage  Brokerage       `mapstructure:"brokerage"`
	Telegram   Telegram        `mapstructure:"telegram"`
	SMTP       SMTP            `mapstructure:"smtp"`
}

// Load loads the guardian configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
