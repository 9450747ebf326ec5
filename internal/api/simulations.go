package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/remit/internal/external"
	"github.com/mtlprog/remit/internal/simulate"
)

// DefaultSimulationCurrency is the payout currency when a start request names none.
const DefaultSimulationCurrency = "PKR"

type simulationResponse struct {
	ID string `json:"id"`
	simulate.Status
}

type startSimulationRequest struct {
	Amount       decimal.Decimal  `json:"amount"`
	Currency     string           `json:"currency"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
}

// CreateSimulation handles POST /api/v1/simulations.
func (h *Handler) CreateSimulation(w http.ResponseWriter, r *http.Request) {
	id, t, err := h.deps.Simulations.Create()
	if err != nil {
		if errors.Is(err, simulate.ErrTooManySessions) {
			writeError(w, http.StatusServiceUnavailable, "too many active simulations, try again later")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, simulationResponse{ID: id, Status: t.Status()})
}

// GetSimulation handles GET /api/v1/simulations/{id}.
func (h *Handler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, ok := h.session(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, simulationResponse{ID: id, Status: t.Status()})
}

// StartSimulation handles POST /api/v1/simulations/{id}/start. The transfer keeps running
// after the response is written; poll GetSimulation for progress.
func (h *Handler) StartSimulation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, ok := h.session(w, id)
	if !ok {
		return
	}

	var body startSimulationRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(body.Currency))
	if currency == "" {
		currency = DefaultSimulationCurrency
	}

	rate, err := h.simulationRate(r.Context(), currency, body.ExchangeRate)
	if err != nil {
		if errors.Is(err, external.ErrRateNotFound) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to resolve exchange rate", "currency", currency, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	req := simulate.Request{Amount: body.Amount, Currency: currency, ExchangeRate: rate}
	if err := t.Start(context.WithoutCancel(r.Context()), req); err != nil {
		switch {
		case errors.Is(err, simulate.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, simulate.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusAccepted, simulationResponse{ID: id, Status: t.Status()})
}

func (h *Handler) simulationRate(ctx context.Context, currency string, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if h.deps.Rates == nil {
		r, ok := external.StaticRates[currency]
		if !ok {
			return decimal.Zero, external.ErrRateNotFound
		}
		return r, nil
	}
	rate, err := h.deps.Rates.Rate(ctx, currency)
	if err != nil {
		return decimal.Zero, err
	}
	return rate.Rate, nil
}

// ResetSimulation handles POST /api/v1/simulations/{id}/reset.
func (h *Handler) ResetSimulation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, ok := h.session(w, id)
	if !ok {
		return
	}
	if err := t.Reset(); err != nil {
		if errors.Is(err, simulate.ErrNotFinished) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, simulationResponse{ID: id, Status: t.Status()})
}

// DeleteSimulation handles DELETE /api/v1/simulations/{id}.
func (h *Handler) DeleteSimulation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.session(w, id); !ok {
		return
	}
	h.deps.Simulations.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, id string) (*simulate.Transfer, bool) {
	t, err := h.deps.Simulations.Get(id)
	if err != nil {
		status, ok := errorStatus(err)
		if !ok {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return nil, false
	}
	return t, true
}

// ListRates handles GET /api/v1/rates.
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.deps.Rates.AllRates(r.Context())
	if err != nil {
		slog.Error("failed to list rates", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rates == nil {
		rates = []external.Rate{}
	}
	writeJSON(w, http.StatusOK, rates)
}
