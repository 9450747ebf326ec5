// Package transfer submits real payments and asset creations on behalf of an explicit signer.
package transfer

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/remit/internal/domain"
	"github.com/mtlprog/remit/internal/wallet"
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Token defaults used by the mint form.
const (
	DefaultTokenName     = "RemitPKR"
	DefaultTokenUnit     = "RPKR"
	DefaultTokenTotal    = 1_000_000
	DefaultTokenDecimals = 2
)

// NFT parameters. Every ticket is a unique, indivisible asset.
const (
	NFTName     = "MasterPass Ticket"
	NFTUnitName = "MTK"
)

// Chain submits signed transactions.
type Chain interface {
	SubmitPayment(ctx context.Context, signer wallet.Signer, receiver string, microAlgos uint64, note []byte) ([]string, error)
	SubmitAssetCreate(ctx context.Context, signer wallet.Signer, p domain.AssetCreateParams) ([]string, error)
}

// Result reports a confirmed submission.
type Result struct {
	TxIDs       []string `json:"txIds"`
	ExplorerURL string   `json:"explorerUrl,omitempty"`
}

// PaymentRequest sends Amount ALGO to Receiver.
type PaymentRequest struct {
	Receiver string          `json:"receiver"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note,omitempty"`
}

// TokenRequest describes a fungible token to create.
type TokenRequest struct {
	AssetName string `json:"assetName"`
	UnitName  string `json:"unitName"`
	Total     uint64 `json:"total"`
	Decimals  int    `json:"decimals"`
}

// DefaultTokenRequest returns the prefilled token form.
func DefaultTokenRequest() TokenRequest {
	return TokenRequest{
		AssetName: DefaultTokenName,
		UnitName:  DefaultTokenUnit,
		Total:     DefaultTokenTotal,
		Decimals:  DefaultTokenDecimals,
	}
}

// NFTRequest describes a ticket NFT pointing at MetadataURL.
type NFTRequest struct {
	MetadataURL string `json:"metadataUrl"`
}

// Service validates submission requests and forwards them to the chain.
type Service struct {
	chain    Chain
	explorer domain.Explorer
}

// NewService creates a transfer Service.
func NewService(chain Chain, explorer domain.Explorer) *Service {
	return &Service{chain: chain, explorer: explorer}
}

// SendPayment validates and submits a payment signed by signer.
func (s *Service) SendPayment(ctx context.Context, signer wallet.Signer, req PaymentRequest) (Result, error) {
	if signer == nil {
		return Result{}, wallet.ErrNotConnected
	}
	receiver := strings.TrimSpace(req.Receiver)
	if !wallet.ValidAddress(receiver) {
		return Result{}, fmt.Errorf("%w: receiver %q is not a valid address", ErrInvalidInput, req.Receiver)
	}
	if !req.Amount.IsPositive() {
		return Result{}, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	micro := domain.AlgoToMicro(req.Amount)
	if micro == 0 {
		return Result{}, fmt.Errorf("%w: amount %s is below one micro-unit", ErrInvalidInput, req.Amount)
	}

	var note []byte
	if req.Note != "" {
		note = []byte(req.Note)
	}

	ids, err := s.chain.SubmitPayment(ctx, signer, receiver, micro, note)
	if err != nil {
		return Result{}, fmt.Errorf("submitting payment: %w", err)
	}
	return s.result(ids), nil
}

// MintToken validates and creates a fungible token owned by signer.
func (s *Service) MintToken(ctx context.Context, signer wallet.Signer, req TokenRequest) (Result, error) {
	if signer == nil {
		return Result{}, wallet.ErrNotConnected
	}
	params, err := tokenParams(req)
	if err != nil {
		return Result{}, err
	}
	ids, err := s.chain.SubmitAssetCreate(ctx, signer, params)
	if err != nil {
		return Result{}, fmt.Errorf("creating token: %w", err)
	}
	return s.result(ids), nil
}

// MintNFT validates and creates a single-unit ticket NFT owned by signer.
func (s *Service) MintNFT(ctx context.Context, signer wallet.Signer, req NFTRequest) (Result, error) {
	if signer == nil {
		return Result{}, wallet.ErrNotConnected
	}
	params, err := nftParams(req)
	if err != nil {
		return Result{}, err
	}
	ids, err := s.chain.SubmitAssetCreate(ctx, signer, params)
	if err != nil {
		return Result{}, fmt.Errorf("creating NFT: %w", err)
	}
	return s.result(ids), nil
}

func (s *Service) result(ids []string) Result {
	r := Result{TxIDs: ids}
	if len(ids) > 0 {
		r.ExplorerURL = s.explorer.TransactionURL(ids[0])
	}
	return r
}

func tokenParams(req TokenRequest) (domain.AssetCreateParams, error) {
	name := strings.TrimSpace(req.AssetName)
	unit := strings.TrimSpace(req.UnitName)
	switch {
	case name == "":
		return domain.AssetCreateParams{}, fmt.Errorf("%w: asset name is required", ErrInvalidInput)
	case unit == "":
		return domain.AssetCreateParams{}, fmt.Errorf("%w: unit name is required", ErrInvalidInput)
	case req.Total == 0:
		return domain.AssetCreateParams{}, fmt.Errorf("%w: total supply must be greater than zero", ErrInvalidInput)
	case req.Decimals < 0 || req.Decimals > 19:
		return domain.AssetCreateParams{}, fmt.Errorf("%w: decimals must be between 0 and 19", ErrInvalidInput)
	}
	return domain.AssetCreateParams{
		AssetName: name,
		UnitName:  unit,
		Total:     req.Total,
		Decimals:  uint32(req.Decimals),
	}, nil
}

func nftParams(req NFTRequest) (domain.AssetCreateParams, error) {
	url := strings.TrimSpace(req.MetadataURL)
	if !strings.HasPrefix(url, "ipfs://") && !strings.HasPrefix(url, "https://") {
		return domain.AssetCreateParams{}, fmt.Errorf("%w: metadata URL must start with ipfs:// or https://", ErrInvalidInput)
	}
	hash := sha512.Sum512_256([]byte(url))
	return domain.AssetCreateParams{
		AssetName:    NFTName,
		UnitName:     NFTUnitName,
		Total:        1,
		Decimals:     0,
		URL:          url,
		MetadataHash: hash[:],
	}, nil
}
