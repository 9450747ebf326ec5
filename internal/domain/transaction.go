package domain

import "github.com/shopspring/decimal"

// TxTypePayment is the indexer's transaction type for base-currency payments.
const TxTypePayment = "pay"

// RawTransactionRecord is a transaction as returned by the indexer.
// Optional fields are nil when the indexer omits them.
type RawTransactionRecord struct {
	ID               string  `json:"id"`
	Kind             string  `json:"kind"`
	AmountMicroUnits *uint64 `json:"amountMicroUnits,omitempty"`
	TimestampSeconds *uint64 `json:"timestampSeconds,omitempty"`
	Sender           string  `json:"sender"`
	Receiver         string  `json:"receiver,omitempty"`
}

// NormalizedTransaction is a RawTransactionRecord converted to display units.
// Amount is nil when the raw record carried no amount.
type NormalizedTransaction struct {
	ID              string           `json:"id"`
	Kind            string           `json:"type"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	TimestampMillis int64            `json:"timestamp"`
	Sender          string           `json:"sender"`
	Receiver        string           `json:"receiver"`
	ExplorerURL     string           `json:"explorerUrl,omitempty"`
}

// IsPayment reports whether the transaction is a payment with a known amount.
func (t NormalizedTransaction) IsPayment() bool {
	return t.Kind == TxTypePayment && t.Amount != nil
}
