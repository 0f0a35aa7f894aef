package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config is the immutable process configuration, loaded from the environment
// once at startup and injected everywhere else.
type Config struct {
	Port        int
	RedisURL    string
	CachePrefix string
	AdminAPIKey string

	TelegramBotToken string

	DexScreenerBaseURL     string
	DexScreenerTimeoutSecs int
	DexScreenerMaxRetries  int

	GeckoTerminalBaseURL     string
	GeckoTerminalTimeoutSecs int
	GeckoTerminalMaxRetries  int

	RetryBaseDelayMs int

	ListCacheTTLSecs    int
	SearchCacheTTLSecs  int
	AddressCacheTTLSecs int

	PriceIntervalSecs     int
	DiscoveryIntervalSecs int
	DeltaThresholdPct     float64
}

func Load() *Config {
	cfg := &Config{
		RedisURL:         os.Getenv("REDIS_URL"),
		AdminAPIKey:      os.Getenv("ADMIN_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.AdminAPIKey == "" {
		log.Println("Warning: ADMIN_API_KEY not set, cache admin endpoints are unauthenticated")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}

	cfg.Port = envInt("PORT", 8080)

	cfg.CachePrefix = strings.TrimSpace(os.Getenv("CACHE_PREFIX"))
	if cfg.CachePrefix == "" {
		cfg.CachePrefix = "agg:"
	}

	cfg.DexScreenerBaseURL = envString("DEXSCREENER_BASE_URL", "https://api.dexscreener.com")
	cfg.DexScreenerTimeoutSecs = envInt("DEXSCREENER_TIMEOUT_SECS", 10)
	cfg.DexScreenerMaxRetries = envInt("DEXSCREENER_MAX_RETRIES", 3)

	cfg.GeckoTerminalBaseURL = envString("GECKOTERMINAL_BASE_URL", "https://api.geckoterminal.com/api/v2")
	cfg.GeckoTerminalTimeoutSecs = envInt("GECKOTERMINAL_TIMEOUT_SECS", 15)
	cfg.GeckoTerminalMaxRetries = envInt("GECKOTERMINAL_MAX_RETRIES", 3)

	cfg.RetryBaseDelayMs = envInt("RETRY_BASE_DELAY_MS", 500)

	cfg.ListCacheTTLSecs = envInt("LIST_CACHE_TTL_SECS", 30)
	cfg.SearchCacheTTLSecs = envInt("SEARCH_CACHE_TTL_SECS", 60)
	cfg.AddressCacheTTLSecs = envInt("ADDRESS_CACHE_TTL_SECS", 15)

	cfg.PriceIntervalSecs = envInt("PRICE_INTERVAL_SECS", 5)
	cfg.DiscoveryIntervalSecs = envInt("DISCOVERY_INTERVAL_SECS", 60)

	cfg.DeltaThresholdPct = 0.1
	if v := strings.TrimSpace(os.Getenv("DELTA_THRESHOLD_PCT")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.DeltaThresholdPct = n
		}
	}

	return cfg
}

func envString(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
