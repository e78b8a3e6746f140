package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Cache store
	CacheDriver string // "sqlite" (default) or "postgres"
	SQLitePath  string
	DatabaseURL string

	// Remote source
	CoinAPIBaseURL string
	CoinAPIKey     string
	QuoteCurrency  string
	RemoteTimeout  time.Duration

	// Sync behaviour
	IconSize          string
	RefreshDebounce   time.Duration
	ProbeInterval     time.Duration
	RateLimit         string // ulule/limiter format, e.g. "120-M"
	JWTSecret         string // empty disables auth on mutating endpoints
	JWTIssuer         string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("CACHE_DRIVER", "sqlite")
	viper.SetDefault("SQLITE_PATH", "cryptomonitor.db")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("COINAPI_BASE_URL", "https://rest.coinapi.io/v1/")
	viper.SetDefault("COINAPI_KEY", "")
	viper.SetDefault("QUOTE_CURRENCY", "EUR")
	viper.SetDefault("REMOTE_TIMEOUT", "10s")
	viper.SetDefault("ICON_SIZE", "64")
	viper.SetDefault("REFRESH_DEBOUNCE", "500ms")
	viper.SetDefault("PROBE_INTERVAL", "15s")
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "cryptomonitor")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		CacheDriver:    viper.GetString("CACHE_DRIVER"),
		SQLitePath:     viper.GetString("SQLITE_PATH"),
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		CoinAPIBaseURL: viper.GetString("COINAPI_BASE_URL"),
		CoinAPIKey:     viper.GetString("COINAPI_KEY"),
		QuoteCurrency:  viper.GetString("QUOTE_CURRENCY"),
		IconSize:       viper.GetString("ICON_SIZE"),
		RateLimit:      viper.GetString("RATE_LIMIT"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		JWTIssuer:      viper.GetString("JWT_ISSUER"),
	}

	cfg.RemoteTimeout = parseDurationOr("REMOTE_TIMEOUT", 10*time.Second)
	cfg.RefreshDebounce = parseDurationOr("REFRESH_DEBOUNCE", 500*time.Millisecond)
	cfg.ProbeInterval = parseDurationOr("PROBE_INTERVAL", 15*time.Second)

	if cfg.CoinAPIKey == "" {
		log.Println("Warning: COINAPI_KEY environment variable not set. Remote fetches will be unauthenticated.")
	}
	if cfg.CacheDriver == "postgres" && cfg.DatabaseURL == "" {
		log.Println("Warning: CACHE_DRIVER=postgres but PGSQL_URL is not set.")
	}

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
