package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, deps Deps, adminAPIKey string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewMux(deps, adminAPIKey),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewMux registers every route. Optional dependencies that are nil leave their routes out.
func NewMux(deps Deps, adminAPIKey string) *http.ServeMux {
	h := NewHandler(deps)
	admin := func(fn http.HandlerFunc) http.Handler {
		if adminAPIKey == "" {
			return fn
		}
		return requireAuth(adminAPIKey, fn)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/accounts/{address}", h.GetAccount)
	mux.HandleFunc("GET /api/v1/accounts/{address}/transactions.csv", h.ExportCSV)
	mux.HandleFunc("GET /api/v1/accounts/{address}/transactions.xlsx", h.ExportXLSX)
	if deps.Refresher != nil {
		mux.HandleFunc("POST /api/v1/accounts/{address}/refresh", h.RefreshAccount)
	}
	if deps.Snapshots != nil {
		mux.HandleFunc("GET /api/v1/accounts/{address}/snapshots", h.ListSnapshots)
		mux.HandleFunc("GET /api/v1/accounts/{address}/snapshots/latest", h.GetLatestSnapshot)
	}

	if deps.Wallet != nil {
		mux.HandleFunc("GET /api/v1/wallet", h.GetWallet)
		mux.Handle("POST /api/v1/wallet/{provider}/connect", admin(h.ConnectWallet))
		mux.Handle("POST /api/v1/wallet/disconnect", admin(h.DisconnectWallet))
	}

	if deps.Transfers != nil && deps.Wallet != nil {
		mux.Handle("POST /api/v1/payments", admin(h.CreatePayment))
		mux.Handle("POST /api/v1/assets/tokens", admin(h.CreateToken))
		mux.Handle("POST /api/v1/assets/nfts", admin(h.CreateNFT))
	}

	if deps.Simulations != nil {
		mux.HandleFunc("POST /api/v1/simulations", h.CreateSimulation)
		mux.HandleFunc("GET /api/v1/simulations/{id}", h.GetSimulation)
		mux.HandleFunc("POST /api/v1/simulations/{id}/start", h.StartSimulation)
		mux.HandleFunc("POST /api/v1/simulations/{id}/reset", h.ResetSimulation)
		mux.HandleFunc("DELETE /api/v1/simulations/{id}", h.DeleteSimulation)
	}
	if deps.Rates != nil {
		mux.HandleFunc("GET /api/v1/rates", h.ListRates)
	}

	if deps.Showcase != nil {
		mux.HandleFunc("GET /api/v1/showcase/compare", h.CompareCosts)
		mux.HandleFunc("GET /api/v1/showcase/markets", h.ListMarkets)
		mux.HandleFunc("GET /api/v1/showcase/markets/{destination}", h.GetMarket)
		mux.HandleFunc("GET /api/v1/showcase/impact", h.GetImpact)
	}

	return mux
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
