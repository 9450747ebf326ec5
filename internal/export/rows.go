// Package export renders transaction history as CSV, XLSX and Google Sheets rows.
package export

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/remit/internal/domain"
)

// Header is the column row shared by every format.
var Header = []string{"Date", "Type", "Amount (ALGO)", "Sender", "Receiver", "Transaction ID"}

const dateLayout = "2006-01-02"

// Row is one exported transaction.
type Row struct {
	Date     string
	Type     string
	Amount   decimal.Decimal
	Sender   string
	Receiver string
	TxID     string
}

// Rows converts transactions to rows, keeping their order. A missing amount exports as zero.
func Rows(txns []domain.NormalizedTransaction) []Row {
	return lo.Map(txns, func(t domain.NormalizedTransaction, _ int) Row {
		amount := decimal.Zero
		if t.Amount != nil {
			amount = *t.Amount
		}
		return Row{
			Date:     time.UnixMilli(t.TimestampMillis).UTC().Format(dateLayout),
			Type:     t.Kind,
			Amount:   amount,
			Sender:   t.Sender,
			Receiver: t.Receiver,
			TxID:     t.ID,
		}
	})
}

// Strings renders the row in Header order.
func (r Row) Strings() []string {
	return []string{r.Date, r.Type, domain.TrimAlgo(r.Amount), r.Sender, r.Receiver, r.TxID}
}

// Filename names an export file created at now, e.g. algo-transactions-2026-03-14.csv.
func Filename(now time.Time, ext string) string {
	return fmt.Sprintf("algo-transactions-%s.%s", now.UTC().Format(dateLayout), ext)
}
