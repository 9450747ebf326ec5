// Package api exposes accounts, exports, wallet submissions, simulated transfers and the
// showcase widgets over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mtlprog/remit/internal/account"
	"github.com/mtlprog/remit/internal/external"
	"github.com/mtlprog/remit/internal/showcase"
	"github.com/mtlprog/remit/internal/simulate"
	"github.com/mtlprog/remit/internal/snapshot"
	"github.com/mtlprog/remit/internal/transfer"
	"github.com/mtlprog/remit/internal/wallet"
)

// AccountService builds account summaries.
type AccountService interface {
	Aggregate(ctx context.Context, address string) (account.Summary, error)
}

// SnapshotService reads stored summaries.
type SnapshotService interface {
	GetLatest(ctx context.Context, address string) (*snapshot.Snapshot, error)
	List(ctx context.Context, address string, limit int) ([]snapshot.Snapshot, error)
}

// RefreshRequester schedules a debounced snapshot refresh.
type RefreshRequester interface {
	Request(address string)
}

// TransferService submits signed payments and asset creations.
type TransferService interface {
	SendPayment(ctx context.Context, signer wallet.Signer, req transfer.PaymentRequest) (transfer.Result, error)
	MintToken(ctx context.Context, signer wallet.Signer, req transfer.TokenRequest) (transfer.Result, error)
	MintNFT(ctx context.Context, signer wallet.Signer, req transfer.NFTRequest) (transfer.Result, error)
}

// RateService resolves exchange rates for simulated transfers.
type RateService interface {
	Rate(ctx context.Context, currency string) (external.Rate, error)
	AllRates(ctx context.Context) ([]external.Rate, error)
}

// Deps are the services behind the routes. Only Accounts is required.
type Deps struct {
	Accounts    AccountService
	Snapshots   SnapshotService
	Refresher   RefreshRequester
	Wallet      *wallet.Manager
	Transfers   TransferService
	Simulations *simulate.Registry
	Rates       RateService
	Showcase    *showcase.Showcase
	Network     string
	Now         func() time.Time
}

// Handler provides the HTTP endpoints.
type Handler struct {
	deps Deps
	now  func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{deps: deps, now: now}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps well-known errors shared by several handlers.
func errorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, wallet.ErrNotConnected):
		return http.StatusConflict, true
	case errors.Is(err, wallet.ErrUnknownProvider):
		return http.StatusNotFound, true
	case errors.Is(err, simulate.ErrSessionNotFound):
		return http.StatusNotFound, true
	}
	return 0, false
}
