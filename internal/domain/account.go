package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AssetHolding is a balance of a secondary (non-base) token held by an account.
type AssetHolding struct {
	AssetID  uint64 `json:"assetId"`
	Amount   uint64 `json:"amount"`
	Decimals uint32 `json:"decimals"`
}

// RawAccountInfo is the account state as reported by the chain.
type RawAccountInfo struct {
	Address           string         `json:"address"`
	BalanceMicroUnits uint64         `json:"balanceMicroUnits"`
	AssetHoldings     []AssetHolding `json:"assetHoldings"`
}

// AssetMetadata holds the display fields of an asset as reported by the indexer.
type AssetMetadata struct {
	AssetID     uint64 `json:"assetId"`
	DisplayName string `json:"displayName"`
	UnitSymbol  string `json:"unitSymbol"`
	Decimals    uint32 `json:"decimals"`
}

// PlaceholderAssetMetadata is used when the indexer cannot describe an asset.
func PlaceholderAssetMetadata(assetID uint64) AssetMetadata {
	return AssetMetadata{
		AssetID:     assetID,
		DisplayName: fmt.Sprintf("Asset %d", assetID),
	}
}

// AssetView is an asset holding enriched with display metadata.
type AssetView struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Amount     uint64 `json:"amount"`
	Decimals   uint32 `json:"decimals"`
	UnitName   string `json:"unitName,omitempty"`
	Normalized string `json:"normalized"`
}

// NewAssetView combines a holding with its metadata. Normalized is the amount scaled by decimals;
// the holding's decimals win over the metadata's when both are set.
func NewAssetView(h AssetHolding, meta AssetMetadata) AssetView {
	decimals := h.Decimals
	if decimals == 0 {
		decimals = meta.Decimals
	}
	scaled := decimal.NewFromUint64(h.Amount).Shift(-int32(decimals))
	return AssetView{
		ID:         h.AssetID,
		Name:       meta.DisplayName,
		Amount:     h.Amount,
		Decimals:   decimals,
		UnitName:   meta.UnitSymbol,
		Normalized: scaled.String(),
	}
}

// AccountStats summarises payment activity for an address. All figures are in ALGO, rounded to 6 places.
type AccountStats struct {
	TotalTransactions        int             `json:"totalTransactions"`
	TotalAlgoSent            decimal.Decimal `json:"totalAlgoSent"`
	TotalAlgoReceived        decimal.Decimal `json:"totalAlgoReceived"`
	AverageTransactionAmount decimal.Decimal `json:"averageTransactionAmount"`
}
