package account

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/remit/internal/domain"
)

// Summary is everything the account page shows for one address.
type Summary struct {
	Address      string                         `json:"address"`
	Balance      string                         `json:"balance"`
	Assets       []domain.AssetView             `json:"assets"`
	Transactions []domain.NormalizedTransaction `json:"transactions"`
	Stats        domain.AccountStats            `json:"stats"`
	Charts       Charts                         `json:"charts"`
	Unfunded     bool                           `json:"unfunded"`
	ExplorerURL  string                         `json:"explorerUrl,omitempty"`
	LastUpdated  time.Time                      `json:"lastUpdated"`
}

// Input collects the raw data for one aggregation pass.
type Input struct {
	Address      string
	Info         domain.RawAccountInfo
	Transactions []domain.RawTransactionRecord
	// Metadata is keyed by asset id. Missing entries fall back to a placeholder name.
	Metadata map[uint64]domain.AssetMetadata
	Explorer domain.Explorer
	// Now stamps the pass and stands in for missing transaction timestamps.
	Now time.Time
}

// Summarize builds a Summary from raw chain data. It performs no I/O.
func Summarize(in Input) Summary {
	holdings := lo.Filter(in.Info.AssetHoldings, func(h domain.AssetHolding, _ int) bool {
		return h.Amount > 0
	})
	assets := lo.Map(holdings, func(h domain.AssetHolding, _ int) domain.AssetView {
		meta, ok := in.Metadata[h.AssetID]
		if !ok || meta.DisplayName == "" {
			placeholder := domain.PlaceholderAssetMetadata(h.AssetID)
			meta.DisplayName = placeholder.DisplayName
		}
		return domain.NewAssetView(h, meta)
	})

	txns := lo.Map(in.Transactions, func(r domain.RawTransactionRecord, _ int) domain.NormalizedTransaction {
		return normalize(r, in.Now, in.Explorer)
	})

	return Summary{
		Address:      in.Address,
		Balance:      domain.FormatAlgo(domain.MicroToAlgo(in.Info.BalanceMicroUnits)),
		Assets:       assets,
		Transactions: txns,
		Stats:        computeStats(txns, in.Address),
		Charts:       buildCharts(txns, in.Address),
		ExplorerURL:  in.Explorer.AddressURL(in.Address),
		LastUpdated:  in.Now,
	}
}

// EmptySummary is the zero state of an address that does not exist on-chain yet.
func EmptySummary(address string, explorer domain.Explorer, now time.Time) Summary {
	s := Summarize(Input{Address: address, Explorer: explorer, Now: now})
	s.Unfunded = true
	return s
}

func normalize(r domain.RawTransactionRecord, now time.Time, explorer domain.Explorer) domain.NormalizedTransaction {
	tx := domain.NormalizedTransaction{
		ID:              r.ID,
		Kind:            r.Kind,
		TimestampMillis: now.UnixMilli(),
		Sender:          r.Sender,
		Receiver:        r.Receiver,
		ExplorerURL:     explorer.TransactionURL(r.ID),
	}
	if r.AmountMicroUnits != nil {
		amt := domain.MicroToAlgo(*r.AmountMicroUnits)
		tx.Amount = &amt
	}
	if r.TimestampSeconds != nil && *r.TimestampSeconds > 0 {
		tx.TimestampMillis = int64(*r.TimestampSeconds) * 1000
	}
	return tx
}

// computeStats sums payments sent from and received by address. The two filters are
// independent, so a self-payment counts toward both totals.
func computeStats(txns []domain.NormalizedTransaction, address string) domain.AccountStats {
	payments := lo.Filter(txns, func(t domain.NormalizedTransaction, _ int) bool {
		return t.IsPayment()
	})
	sent := lo.Filter(payments, func(t domain.NormalizedTransaction, _ int) bool {
		return t.Sender == address
	})
	received := lo.Filter(payments, func(t domain.NormalizedTransaction, _ int) bool {
		return t.Receiver == address
	})

	totalSent := sumAmounts(sent)
	totalReceived := sumAmounts(received)

	average := decimal.Zero
	if len(payments) > 0 {
		average = totalSent.Add(totalReceived).Div(decimal.NewFromInt(int64(len(payments))))
	}

	return domain.AccountStats{
		TotalTransactions:        len(txns),
		TotalAlgoSent:            domain.Round6(totalSent),
		TotalAlgoReceived:        domain.Round6(totalReceived),
		AverageTransactionAmount: domain.Round6(average),
	}
}

func sumAmounts(txns []domain.NormalizedTransaction) decimal.Decimal {
	return lo.Reduce(txns, func(acc decimal.Decimal, t domain.NormalizedTransaction, _ int) decimal.Decimal {
		if t.Amount == nil {
			return acc
		}
		return acc.Add(*t.Amount)
	}, decimal.Zero)
}
