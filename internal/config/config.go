package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	AlgodServer   string
	AlgodPort     string
	AlgodToken    string
	AlgodNetwork  string
	IndexerServer string
	IndexerPort   string
	IndexerToken  string
	ExplorerURL   string

	DatabaseURL  string
	CoinGeckoURL string
	HTTPPort     string
	AdminAPIKey  string

	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	RetryMaxDelay     time.Duration
	TransactionLimit  int
	DebounceWait      time.Duration
	RefreshTimeout    time.Duration

	WalletMnemonic         string
	ConfirmationRounds     int
	ChainRequestsPerSecond int

	RateCurrencies         []string
	QuoteWorkerInterval    time.Duration
	SnapshotWorkerInterval time.Duration
	WatchAddresses         []string

	GoogleSheetsID        string
	GoogleCredentialsJSON string

	SimInitiateDelay time.Duration
	SimSendDelay     time.Duration
	SimConvertDelay  time.Duration
	SimMaxSessions   int
	SimSessionTTL    time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// The defaults target the public TestNet endpoints.
func Load() Config {
	return Config{
		AlgodServer:   envOrDefault("ALGOD_SERVER", "https://testnet-api.algonode.cloud"),
		AlgodPort:     envOrDefault("ALGOD_PORT", ""),
		AlgodToken:    envOrDefault("ALGOD_TOKEN", ""),
		AlgodNetwork:  envOrDefault("ALGOD_NETWORK", "testnet"),
		IndexerServer: envOrDefault("INDEXER_SERVER", "https://testnet-idx.algonode.cloud"),
		IndexerPort:   envOrDefault("INDEXER_PORT", ""),
		IndexerToken:  envOrDefault("INDEXER_TOKEN", ""),
		ExplorerURL:   envOrDefault("EXPLORER_URL", "https://testnet.algoexplorer.io"),

		DatabaseURL:  envOrDefaultWarn("DATABASE_URL", ""),
		CoinGeckoURL: envOrDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		HTTPPort:     envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:  envOrDefault("ADMIN_API_KEY", ""),

		RetryMaxAttempts:  envOrDefaultInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: envOrDefaultDuration("RETRY_INITIAL_DELAY", 1*time.Second),
		RetryMaxDelay:     envOrDefaultDuration("RETRY_MAX_DELAY", 30*time.Second),
		TransactionLimit:  envOrDefaultInt("TRANSACTION_LIMIT", 20),
		DebounceWait:      envOrDefaultDuration("DEBOUNCE_WAIT", 1*time.Second),
		RefreshTimeout:    envOrDefaultDuration("REFRESH_TIMEOUT", 2*time.Minute),

		WalletMnemonic:         envOrDefault("WALLET_MNEMONIC", ""),
		ConfirmationRounds:     envOrDefaultInt("CONFIRMATION_ROUNDS", 4),
		ChainRequestsPerSecond: envOrDefaultInt("CHAIN_REQUESTS_PER_SECOND", 10),

		RateCurrencies:         envOrDefaultList("RATE_CURRENCIES", []string{"PKR", "USD"}),
		QuoteWorkerInterval:    envOrDefaultDuration("QUOTE_WORKER_INTERVAL", 1*time.Hour),
		SnapshotWorkerInterval: envOrDefaultDuration("SNAPSHOT_WORKER_INTERVAL", 24*time.Hour),
		WatchAddresses:         envOrDefaultList("WATCH_ADDRESSES", nil),

		GoogleSheetsID:        envOrDefault("GOOGLE_SHEETS_ID", ""),
		GoogleCredentialsJSON: envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),

		SimInitiateDelay: envOrDefaultDuration("SIM_INITIATE_DELAY", 1500*time.Millisecond),
		SimSendDelay:     envOrDefaultDuration("SIM_SEND_DELAY", 2*time.Second),
		SimConvertDelay:  envOrDefaultDuration("SIM_CONVERT_DELAY", 2*time.Second),
		SimMaxSessions:   envOrDefaultInt("SIM_MAX_SESSIONS", 10000),
		SimSessionTTL:    envOrDefaultDuration("SIM_SESSION_TTL", 30*time.Minute),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

// envOrDefaultList splits a comma-separated variable, dropping blank entries.
func envOrDefaultList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
