package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{
		"ALGOD_SERVER", "INDEXER_SERVER", "DATABASE_URL", "COINGECKO_URL", "HTTP_PORT",
		"RETRY_MAX_ATTEMPTS", "RETRY_INITIAL_DELAY", "TRANSACTION_LIMIT", "DEBOUNCE_WAIT",
		"RATE_CURRENCIES", "WATCH_ADDRESSES", "ALGOD_NETWORK", "EXPLORER_URL",
		"CHAIN_REQUESTS_PER_SECOND",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.AlgodServer != "https://testnet-api.algonode.cloud" {
		t.Errorf("AlgodServer = %q, want default", cfg.AlgodServer)
	}
	if cfg.IndexerServer != "https://testnet-idx.algonode.cloud" {
		t.Errorf("IndexerServer = %q, want default", cfg.IndexerServer)
	}
	if cfg.AlgodNetwork != "testnet" {
		t.Errorf("AlgodNetwork = %q, want testnet", cfg.AlgodNetwork)
	}
	if cfg.ExplorerURL != "https://testnet.algoexplorer.io" {
		t.Errorf("ExplorerURL = %q, want default", cfg.ExplorerURL)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.CoinGeckoURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("CoinGeckoURL = %q, want default", cfg.CoinGeckoURL)
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Errorf("RetryMaxAttempts = %d, want 3", cfg.RetryMaxAttempts)
	}
	if cfg.RetryInitialDelay != time.Second {
		t.Errorf("RetryInitialDelay = %v, want 1s", cfg.RetryInitialDelay)
	}
	if cfg.TransactionLimit != 20 {
		t.Errorf("TransactionLimit = %d, want 20", cfg.TransactionLimit)
	}
	if cfg.DebounceWait != time.Second {
		t.Errorf("DebounceWait = %v, want 1s", cfg.DebounceWait)
	}
	if len(cfg.RateCurrencies) != 2 || cfg.RateCurrencies[0] != "PKR" {
		t.Errorf("RateCurrencies = %v, want [PKR USD]", cfg.RateCurrencies)
	}
	if cfg.WatchAddresses != nil {
		t.Errorf("WatchAddresses = %v, want nil", cfg.WatchAddresses)
	}
	if cfg.ChainRequestsPerSecond != 10 {
		t.Errorf("ChainRequestsPerSecond = %d, want 10", cfg.ChainRequestsPerSecond)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ALGOD_SERVER", "http://localhost")
	t.Setenv("ALGOD_PORT", "4001")
	t.Setenv("DATABASE_URL", "postgres://localhost/testdb")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("RETRY_INITIAL_DELAY", "250ms")
	t.Setenv("WATCH_ADDRESSES", " ADDR1, ,ADDR2 ")

	cfg := Load()

	if cfg.AlgodServer != "http://localhost" || cfg.AlgodPort != "4001" {
		t.Errorf("algod = %q:%q, want override", cfg.AlgodServer, cfg.AlgodPort)
	}
	if cfg.DatabaseURL != "postgres://localhost/testdb" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.RetryMaxAttempts != 5 {
		t.Errorf("RetryMaxAttempts = %d, want 5", cfg.RetryMaxAttempts)
	}
	if cfg.RetryInitialDelay != 250*time.Millisecond {
		t.Errorf("RetryInitialDelay = %v, want 250ms", cfg.RetryInitialDelay)
	}
	if len(cfg.WatchAddresses) != 2 || cfg.WatchAddresses[0] != "ADDR1" || cfg.WatchAddresses[1] != "ADDR2" {
		t.Errorf("WatchAddresses = %v, want [ADDR1 ADDR2]", cfg.WatchAddresses)
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("RETRY_INITIAL_DELAY", "invalid-duration")

	cfg := Load()

	if cfg.RetryMaxAttempts != 3 {
		t.Errorf("RetryMaxAttempts = %d, want default 3 on invalid input", cfg.RetryMaxAttempts)
	}
	if cfg.RetryInitialDelay != time.Second {
		t.Errorf("RetryInitialDelay = %v, want default 1s on invalid input", cfg.RetryInitialDelay)
	}
}
