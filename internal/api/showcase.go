package api

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/remit/internal/showcase"
)

// decimalParam reads an optional decimal query parameter. A missing value yields fallback.
func decimalParam(r *http.Request, name string, fallback decimal.Decimal) (decimal.Decimal, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CompareCosts handles GET /api/v1/showcase/compare?amount=.
func (h *Handler) CompareCosts(w http.ResponseWriter, r *http.Request) {
	amount, err := decimalParam(r, "amount", h.deps.Showcase.DefaultAmount())
	if err != nil || amount.IsNegative() {
		writeError(w, http.StatusBadRequest, "amount must be a non-negative number")
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Showcase.CompareCosts(amount))
}

// ListMarkets handles GET /api/v1/showcase/markets.
func (h *Handler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Showcase.Markets())
}

// GetMarket handles GET /api/v1/showcase/markets/{destination}.
func (h *Handler) GetMarket(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.Showcase.Market(r.PathValue("destination"))
	if err != nil {
		if errors.Is(err, showcase.ErrUnknownMarket) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetImpact handles GET /api/v1/showcase/impact?volume=&share=&savingsRate=.
func (h *Handler) GetImpact(w http.ResponseWriter, r *http.Request) {
	var params [3]decimal.Decimal
	for i, name := range []string{"volume", "share", "savingsRate"} {
		d, err := decimalParam(r, name, decimal.Zero)
		if err != nil || d.IsNegative() {
			writeError(w, http.StatusBadRequest, name+" must be a non-negative number")
			return
		}
		params[i] = d
	}
	writeJSON(w, http.StatusOK, h.deps.Showcase.Impact(params[0], params[1], params[2]))
}
