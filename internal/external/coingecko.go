package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/remit/internal/domain"
	"github.com/mtlprog/remit/internal/retry"
)

// StablecoinID is the CoinGecko id of the coin the simulated transfer settles in.
const StablecoinID = "usd-coin"

// CoinGeckoClient fetches stablecoin exchange rates from the CoinGecko API.
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
	retrier    *retry.Retrier
}

// NewCoinGeckoClient creates a new CoinGecko API client. Rate-limited responses are retried by retrier.
func NewCoinGeckoClient(baseURL string, retrier *retry.Retrier) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retrier:    retrier,
	}
}

// FetchRates returns how many units of each currency one USDC buys.
// Currencies missing from the response are omitted.
func (c *CoinGeckoClient) FetchRates(ctx context.Context, currencies []string) (map[string]decimal.Decimal, error) {
	if len(currencies) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	vs := make([]string, len(currencies))
	for i, cur := range currencies {
		vs[i] = strings.ToLower(cur)
	}
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s", c.baseURL, StablecoinID, strings.Join(vs, ","))

	body, err := retry.Do(ctx, c.retrier, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	// Parse: {"usd-coin":{"pkr":278.4,"usd":1.0}}
	var raw map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing CoinGecko response: %w", err)
	}

	prices := raw[StablecoinID]
	result := make(map[string]decimal.Decimal, len(currencies))
	for _, cur := range currencies {
		if rate, ok := prices[strings.ToLower(cur)]; ok {
			result[strings.ToUpper(cur)] = rate
		}
	}
	return result, nil
}

func (c *CoinGeckoClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating CoinGecko request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CoinGecko request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading CoinGecko response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("CoinGecko: %w", domain.ErrRateLimited)
	default:
		return nil, fmt.Errorf("CoinGecko HTTP %d: %s", resp.StatusCode, string(body))
	}
}
