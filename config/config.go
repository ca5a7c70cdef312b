package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/pkowalke/algohost/enum"
)

// Config is the environment-driven session configuration.
type Config struct {
	// Strategy selects the algorithm to host.
	Strategy enum.Strategy
	// Symbol overrides the single-symbol strategies' default instrument.
	Symbol string
	// StartingCash funds the paper portfolio.
	StartingCash float64
	// LiveTrading routes orders to the brokerage instead of the paper book.
	LiveTrading bool

	BrokerageBaseURL string
	BrokerageWSURL   string
	APIKey           string
	APISecret        string

	// DatabaseURL enables Postgres persistence when set.
	DatabaseURL string

	TelegramToken  string
	TelegramChatID int64

	// ReportPath of the HTML session report written on shutdown.
	ReportPath string
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Strategy:         enum.DualThrust,
		Symbol:           getEnv("ALGOHOST_SYMBOL", ""),
		StartingCash:     100000,
		BrokerageBaseURL: getEnv("BROKERAGE_BASE_URL", "https://api.coinbase.com"),
		BrokerageWSURL:   getEnv("BROKERAGE_WS_URL", "wss://advanced-trade-ws.coinbase.com"),
		APIKey:           os.Getenv("BROKERAGE_API_KEY"),
		APISecret:        os.Getenv("BROKERAGE_API_SECRET"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		ReportPath:       getEnv("ALGOHOST_REPORT", "session_report.html"),
	}

	if s := os.Getenv("ALGOHOST_STRATEGY"); s != "" {
		cfg.Strategy = enum.GetStrategy(s)
	}
	if s := os.Getenv("ALGOHOST_CASH"); s != "" {
		cash, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return cfg, fmt.Errorf("ALGOHOST_CASH: %w", err)
		}
		cfg.StartingCash = cash
	}
	if s := os.Getenv("ALGOHOST_LIVE"); s != "" {
		live, err := strconv.ParseBool(s)
		if err != nil {
			return cfg, fmt.Errorf("ALGOHOST_LIVE: %w", err)
		}
		cfg.LiveTrading = live
	}
	if s := os.Getenv("TELEGRAM_CHAT_ID"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	if cfg.LiveTrading && (cfg.APIKey == "" || cfg.APISecret == "") {
		return cfg, fmt.Errorf("live trading requires BROKERAGE_API_KEY and BROKERAGE_API_SECRET")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
