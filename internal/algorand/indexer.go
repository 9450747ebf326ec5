package algorand

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/samber/lo"

	"github.com/mtlprog/remit/internal/domain"
)

// ListTransactions returns up to limit recent transactions involving address, in indexer order.
func (c *Client) ListTransactions(ctx context.Context, address string, limit int) ([]domain.RawTransactionRecord, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	req := c.indexer.LookupAccountTransactions(address)
	if limit > 0 {
		req = req.Limit(uint64(limit))
	}
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions for %s: %w", address, classify(err, domain.ErrAccountNotFound))
	}
	return lo.Map(resp.Transactions, func(t models.Transaction, _ int) domain.RawTransactionRecord {
		return toRawRecord(t)
	}), nil
}

// LookupAsset returns the display metadata of an asset.
func (c *Client) LookupAsset(ctx context.Context, assetID uint64) (domain.AssetMetadata, error) {
	if err := c.wait(ctx); err != nil {
		return domain.AssetMetadata{}, err
	}
	_, asset, err := c.indexer.LookupAssetByID(assetID).Do(ctx)
	if err != nil {
		return domain.AssetMetadata{}, fmt.Errorf("looking up asset %d: %w", assetID, classify(err, domain.ErrAssetNotFound))
	}
	return domain.AssetMetadata{
		AssetID:     assetID,
		DisplayName: asset.Params.Name,
		UnitSymbol:  asset.Params.UnitName,
		Decimals:    uint32(asset.Params.Decimals),
	}, nil
}

func toRawRecord(t models.Transaction) domain.RawTransactionRecord {
	rec := domain.RawTransactionRecord{
		ID:     t.Id,
		Kind:   t.Type,
		Sender: t.Sender,
	}
	if t.RoundTime > 0 {
		rt := t.RoundTime
		rec.TimestampSeconds = &rt
	}
	if t.Type == domain.TxTypePayment {
		amt := t.PaymentTransaction.Amount
		rec.AmountMicroUnits = &amt
		rec.Receiver = t.PaymentTransaction.Receiver
	}
	return rec
}
