// Package algorand adapts the algod and indexer REST clients to the service's domain types.
package algorand

import (
	"context"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/indexer"
	"golang.org/x/time/rate"

	"github.com/mtlprog/remit/internal/domain"
)

// DefaultConfirmationRounds is how many rounds a submission waits for confirmation.
const DefaultConfirmationRounds = 4

// Client reads account state from algod, history and asset metadata from the indexer,
// and submits signed transactions to algod.
type Client struct {
	algod              *algod.Client
	indexer            *indexer.Client
	confirmationRounds uint64
	limiter            *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithRequestLimit caps outgoing requests at perSecond, shared by algod and the indexer.
// A non-positive rate leaves requests unthrottled.
func WithRequestLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// Endpoint is a node or indexer address with its API token.
type Endpoint struct {
	Server string
	Port   string
	Token  string
}

// URL joins server and port. An empty port leaves the server untouched.
func (e Endpoint) URL() string {
	if e.Port == "" {
		return e.Server
	}
	return fmt.Sprintf("%s:%s", strings.TrimRight(e.Server, "/"), e.Port)
}

// NewClient creates a Client for the given endpoints.
func NewClient(node, idx Endpoint, confirmationRounds uint64, opts ...Option) (*Client, error) {
	algodClient, err := algod.MakeClient(node.URL(), node.Token)
	if err != nil {
		return nil, fmt.Errorf("creating algod client: %w", err)
	}
	indexerClient, err := indexer.MakeClient(idx.URL(), idx.Token)
	if err != nil {
		return nil, fmt.Errorf("creating indexer client: %w", err)
	}
	if confirmationRounds == 0 {
		confirmationRounds = DefaultConfirmationRounds
	}
	c := &Client{
		algod:              algodClient,
		indexer:            indexerClient,
		confirmationRounds: confirmationRounds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// wait blocks until the request limiter admits one more request.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for request slot: %w", err)
	}
	return nil
}

// classify maps SDK errors onto the domain's sentinel errors. The SDK reports HTTP failures
// as "HTTP <status>: <body>", so the status code is read from the message prefix.
// A 404 becomes notFound; pass nil for calls where a 404 carries no domain meaning.
func classify(err error, notFound error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "HTTP 429"):
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	case notFound != nil && isNotFound(msg):
		return fmt.Errorf("%w: %v", notFound, err)
	default:
		return err
	}
}

func isNotFound(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.HasPrefix(msg, "HTTP 404") ||
		strings.Contains(lower, "account not found") ||
		strings.Contains(lower, "no accounts found")
}
