package algorand

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/mtlprog/remit/internal/domain"
	"github.com/mtlprog/remit/internal/wallet"
)

// SubmitPayment sends microAlgos from the signer's account to receiver and waits for confirmation.
func (c *Client) SubmitPayment(ctx context.Context, signer wallet.Signer, receiver string, microAlgos uint64, note []byte) ([]string, error) {
	sp, err := c.suggestedParams(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := transaction.MakePaymentTxn(signer.Address(), receiver, microAlgos, note, "", sp)
	if err != nil {
		return nil, fmt.Errorf("building payment: %w", err)
	}
	return c.signAndSend(ctx, signer, tx)
}

// SubmitAssetCreate creates a new asset owned and managed by the signer's account.
func (c *Client) SubmitAssetCreate(ctx context.Context, signer wallet.Signer, p domain.AssetCreateParams) ([]string, error) {
	sp, err := c.suggestedParams(ctx)
	if err != nil {
		return nil, err
	}
	creator := signer.Address()
	tx, err := transaction.MakeAssetCreateTxn(
		creator, nil, sp,
		p.Total, p.Decimals, p.DefaultFrozen,
		creator, creator, creator, creator,
		p.UnitName, p.AssetName, p.URL, string(p.MetadataHash),
	)
	if err != nil {
		return nil, fmt.Errorf("building asset create: %w", err)
	}
	return c.signAndSend(ctx, signer, tx)
}

func (c *Client) suggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	if err := c.wait(ctx); err != nil {
		return types.SuggestedParams{}, err
	}
	sp, err := c.algod.SuggestedParams().Do(ctx)
	if err != nil {
		return types.SuggestedParams{}, fmt.Errorf("fetching suggested params: %w", classify(err, nil))
	}
	return sp, nil
}

func (c *Client) signAndSend(ctx context.Context, signer wallet.Signer, tx types.Transaction) ([]string, error) {
	txID, signed, err := signer.SignTransaction(tx)
	if err != nil {
		return nil, err
	}
	if _, err := c.algod.SendRawTransaction(signed).Do(ctx); err != nil {
		return nil, fmt.Errorf("sending transaction %s: %w", txID, classify(err, nil))
	}
	if _, err := transaction.WaitForConfirmation(c.algod, txID, c.confirmationRounds, ctx); err != nil {
		return nil, fmt.Errorf("waiting for confirmation of %s: %w", txID, err)
	}
	slog.Info("transaction confirmed", "txId", txID, "sender", signer.Address())
	return []string{txID}, nil
}
