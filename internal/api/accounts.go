package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mtlprog/remit/internal/account"
	"github.com/mtlprog/remit/internal/domain"
	"github.com/mtlprog/remit/internal/export"
	"github.com/mtlprog/remit/internal/snapshot"
	"github.com/mtlprog/remit/internal/wallet"
)

// RateLimitMessage is shown when the chain services keep rejecting requests after retries.
const RateLimitMessage = "Rate limit exceeded. Please wait a moment and try again."

// UnfundedNotice is attached to summaries of addresses that do not exist on-chain yet.
const UnfundedNotice = "Account is unfunded. Please use a TestNet faucet to add ALGO."

// FaucetURL is the TestNet dispenser.
const FaucetURL = "https://dispenser.testnet-algorand.network/"

type accountResponse struct {
	account.Summary
	Network   string `json:"network"`
	Notice    string `json:"notice,omitempty"`
	FaucetURL string `json:"faucetUrl,omitempty"`
}

// summary validates the path address and aggregates it, writing the error response itself.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) (account.Summary, bool) {
	address := r.PathValue("address")
	if !wallet.ValidAddress(address) {
		writeError(w, http.StatusBadRequest, "invalid address")
		return account.Summary{}, false
	}

	s, err := h.deps.Accounts.Aggregate(r.Context(), address)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			writeError(w, http.StatusTooManyRequests, RateLimitMessage)
			return account.Summary{}, false
		}
		slog.Error("failed to aggregate account", "address", address, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return account.Summary{}, false
	}
	return s, true
}

// GetAccount handles GET /api/v1/accounts/{address}.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	s, ok := h.summary(w, r)
	if !ok {
		return
	}
	resp := accountResponse{Summary: s, Network: domain.NetworkDisplayName(h.deps.Network)}
	if s.Unfunded {
		resp.Notice = UnfundedNotice
		resp.FaucetURL = FaucetURL
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportCSV handles GET /api/v1/accounts/{address}/transactions.csv.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	s, ok := h.summary(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, s.Transactions); err != nil {
		slog.Error("failed to export CSV", "address", s.Address, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to export transactions")
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", export.Filename(h.now(), "csv"), buf.Bytes())
}

// ExportXLSX handles GET /api/v1/accounts/{address}/transactions.xlsx.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	s, ok := h.summary(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, s.Transactions); err != nil {
		slog.Error("failed to export XLSX", "address", s.Address, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to export transactions")
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		export.Filename(h.now(), "xlsx"), buf.Bytes())
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
	}
}

// RefreshAccount handles POST /api/v1/accounts/{address}/refresh.
func (h *Handler) RefreshAccount(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !wallet.ValidAddress(address) {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}
	h.deps.Refresher.Request(address)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

// GetLatestSnapshot handles GET /api/v1/accounts/{address}/snapshots/latest.
func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	s, err := h.deps.Snapshots.GetLatest(r.Context(), address)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no snapshots found")
			return
		}
		slog.Error("failed to get latest snapshot", "address", address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// ListSnapshots handles GET /api/v1/accounts/{address}/snapshots.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 365
	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	address := r.PathValue("address")
	snapshots, err := h.deps.Snapshots.List(r.Context(), address, limit)
	if err != nil {
		slog.Error("failed to list snapshots", "address", address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if snapshots == nil {
		snapshots = []snapshot.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snapshots)
}
