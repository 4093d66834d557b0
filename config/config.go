package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// placeholderOpenAIKey is the value shipped in example .env files
const placeholderOpenAIKey = "your_openai_key_here"

// Config holds the application configuration
type Config struct {
	Port     string
	LogLevel string

	CoinGeckoURL     string
	CoinGeckoAPIKey  string
	CoinGeckoTimeout time.Duration

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OpenAITimeout time.Duration

	OneClickJWT     string
	OneClickBaseURL string
	OneClickTimeout time.Duration

	RPCURL             string
	HistoryFile        string
	ExecutionDelay     time.Duration
	DefaultUserBalance decimal.Decimal
	PriceCacheTTL      time.Duration
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".smart-wallet")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("port", "5000")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("coingecko_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("coingecko_timeout", 5*time.Second)
	viper.SetDefault("openai_model", "gpt-3.5-turbo")
	viper.SetDefault("openai_base_url", "https://api.openai.com/v1")
	viper.SetDefault("openai_timeout", 15*time.Second)
	viper.SetDefault("oneclick_base_url", "https://1click.chaindefuser.com")
	viper.SetDefault("oneclick_timeout", 5*time.Second)
	viper.SetDefault("execution_delay", 2*time.Second)
	viper.SetDefault("default_user_balance", "1000")
	viper.SetDefault("price_cache_ttl", 30*time.Second)

	// Read from environment variables
	viper.SetEnvPrefix("SMART_WALLET")
	viper.AutomaticEnv()

	// Plain names used by the web frontend's .env
	_ = viper.BindEnv("port", "SMART_WALLET_PORT", "PORT")
	_ = viper.BindEnv("openai_api_key", "SMART_WALLET_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("coingecko_api_key", "SMART_WALLET_COINGECKO_API_KEY", "COINGECKO_API_KEY")

	// Read config file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	balance, err := decimal.NewFromString(viper.GetString("default_user_balance"))
	if err != nil {
		return nil, fmt.Errorf("invalid default_user_balance: %w", err)
	}

	// Create config struct
	cfg := &Config{
		Port:               viper.GetString("port"),
		LogLevel:           strings.ToLower(viper.GetString("log_level")),
		CoinGeckoURL:       viper.GetString("coingecko_url"),
		CoinGeckoAPIKey:    viper.GetString("coingecko_api_key"),
		CoinGeckoTimeout:   viper.GetDuration("coingecko_timeout"),
		OpenAIAPIKey:       viper.GetString("openai_api_key"),
		OpenAIModel:        viper.GetString("openai_model"),
		OpenAIBaseURL:      viper.GetString("openai_base_url"),
		OpenAITimeout:      viper.GetDuration("openai_timeout"),
		OneClickJWT:        viper.GetString("oneclick_jwt_token"),
		OneClickBaseURL:    viper.GetString("oneclick_base_url"),
		OneClickTimeout:    viper.GetDuration("oneclick_timeout"),
		RPCURL:             viper.GetString("rpc_url"),
		HistoryFile:        viper.GetString("history_file"),
		ExecutionDelay:     viper.GetDuration("execution_delay"),
		DefaultUserBalance: balance,
		PriceCacheTTL:      viper.GetDuration("price_cache_ttl"),
	}

	if cfg.OpenAIAPIKey == placeholderOpenAIKey {
		cfg.OpenAIAPIKey = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.ExecutionDelay < 0 {
		return fmt.Errorf("execution_delay must not be negative")
	}
	if c.CoinGeckoTimeout <= 0 || c.OneClickTimeout <= 0 {
		return fmt.Errorf("price source timeouts must be positive")
	}
	if c.PriceCacheTTL < 0 {
		return fmt.Errorf("price_cache_ttl must not be negative")
	}
	if !c.DefaultUserBalance.IsPositive() {
		return fmt.Errorf("default_user_balance must be positive")
	}
	return nil
}

// HasOpenAI reports whether an LLM key is configured
func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

