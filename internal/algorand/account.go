package algorand

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/samber/lo"

	"github.com/mtlprog/remit/internal/domain"
)

// FetchAccount retrieves the live balance and asset holdings of address.
// An unknown address returns domain.ErrAccountNotFound.
func (c *Client) FetchAccount(ctx context.Context, address string) (domain.RawAccountInfo, error) {
	if err := c.wait(ctx); err != nil {
		return domain.RawAccountInfo{}, err
	}
	info, err := c.algod.AccountInformation(address).Do(ctx)
	if err != nil {
		return domain.RawAccountInfo{}, fmt.Errorf("fetching account %s: %w", address, classify(err, domain.ErrAccountNotFound))
	}

	return domain.RawAccountInfo{
		Address:           address,
		BalanceMicroUnits: info.Amount,
		AssetHoldings: lo.Map(info.Assets, func(h models.AssetHolding, _ int) domain.AssetHolding {
			return domain.AssetHolding{AssetID: h.AssetId, Amount: h.Amount}
		}),
	}, nil
}
