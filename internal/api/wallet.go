package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mtlprog/remit/internal/transfer"
	"github.com/mtlprog/remit/internal/wallet"
)

type walletResponse struct {
	Connected bool                  `json:"connected"`
	Address   string                `json:"address,omitempty"`
	Providers []wallet.ProviderInfo `json:"providers"`
}

func (h *Handler) walletState() walletResponse {
	addr, ok := h.deps.Wallet.ActiveAddress()
	return walletResponse{Connected: ok, Address: addr, Providers: h.deps.Wallet.Providers()}
}

// GetWallet handles GET /api/v1/wallet.
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.walletState())
}

// ConnectWallet handles POST /api/v1/wallet/{provider}/connect.
func (h *Handler) ConnectWallet(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	if _, err := h.deps.Wallet.Connect(provider); err != nil {
		if status, ok := errorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		slog.Error("failed to connect wallet", "provider", provider, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, h.walletState())
}

// DisconnectWallet handles POST /api/v1/wallet/disconnect.
func (h *Handler) DisconnectWallet(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Wallet.Disconnect(); err != nil {
		if status, ok := errorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, h.walletState())
}

const connectWalletMessage = "Please connect your wallet first"

// submit resolves the active signer and runs fn, mapping failures to responses.
func (h *Handler) submit(w http.ResponseWriter, failure string, fn func(wallet.Signer) (transfer.Result, error)) {
	signer, err := h.deps.Wallet.Signer()
	if err != nil {
		writeError(w, http.StatusConflict, connectWalletMessage)
		return
	}

	res, err := fn(signer)
	if err != nil {
		if errors.Is(err, transfer.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("submission failed", "signer", signer.Address(), "error", err)
		writeError(w, http.StatusBadGateway, failure)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// CreatePayment handles POST /api/v1/payments.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req transfer.PaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.submit(w, "Failed to send transaction. Please check the address and try again.", func(s wallet.Signer) (transfer.Result, error) {
		return h.deps.Transfers.SendPayment(r.Context(), s, req)
	})
}

// CreateToken handles POST /api/v1/assets/tokens. Omitted fields take the form defaults.
func (h *Handler) CreateToken(w http.ResponseWriter, r *http.Request) {
	req := transfer.DefaultTokenRequest()
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	h.submit(w, "Failed to mint token. Please check inputs and try again.", func(s wallet.Signer) (transfer.Result, error) {
		return h.deps.Transfers.MintToken(r.Context(), s, req)
	})
}

// CreateNFT handles POST /api/v1/assets/nfts.
func (h *Handler) CreateNFT(w http.ResponseWriter, r *http.Request) {
	var req transfer.NFTRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.submit(w, "Failed to mint NFT. Please check the metadata URL and try again.", func(s wallet.Signer) (transfer.Result, error) {
		return h.deps.Transfers.MintNFT(r.Context(), s, req)
	})
}
