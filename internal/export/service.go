package export

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/remit/internal/account"
	"github.com/mtlprog/remit/internal/domain"
)

// SheetWriter writes account data to a spreadsheet destination.
type SheetWriter interface {
	WriteTransactions(ctx context.Context, sheet string, rows []Row) error
	AppendSummary(ctx context.Context, row SummaryRow) error
}

// SummaryRow is one line of SummarySheet.
type SummaryRow struct {
	Date         time.Time
	Address      string
	Balance      decimal.Decimal
	Transactions int
	Sent         decimal.Decimal
	Received     decimal.Decimal
	Average      decimal.Decimal
	Assets       int
}

// Values renders the row in SummaryHeader order.
func (r SummaryRow) Values() []any {
	return []any{
		r.Date.UTC().Format(dateLayout),
		r.Address,
		toFloat(r.Balance),
		r.Transactions,
		toFloat(r.Sent),
		toFloat(r.Received),
		toFloat(r.Average),
		r.Assets,
	}
}

// NewSummaryRow flattens a summary.
func NewSummaryRow(s account.Summary) SummaryRow {
	return SummaryRow{
		Date:         s.LastUpdated,
		Address:      s.Address,
		Balance:      domain.SafeParse(s.Balance),
		Transactions: s.Stats.TotalTransactions,
		Sent:         s.Stats.TotalAlgoSent,
		Received:     s.Stats.TotalAlgoReceived,
		Average:      s.Stats.AverageTransactionAmount,
		Assets:       len(s.Assets),
	}
}

// TransactionSheetName names the per-account transactions sheet.
func TransactionSheetName(address string) string {
	if len(address) > 8 {
		address = address[:8]
	}
	return "TX " + address
}

// Service pushes account summaries to a SheetWriter.
type Service struct {
	writer SheetWriter
}

// NewService creates a new export Service.
func NewService(writer SheetWriter) *Service {
	return &Service{writer: writer}
}

// Export rewrites the account's transactions sheet and appends its summary row.
// Implements worker.AfterSnapshotHook.
func (s *Service) Export(ctx context.Context, summary account.Summary) error {
	if err := s.writer.WriteTransactions(ctx, TransactionSheetName(summary.Address), Rows(summary.Transactions)); err != nil {
		return fmt.Errorf("exporting transactions: %w", err)
	}
	if err := s.writer.AppendSummary(ctx, NewSummaryRow(summary)); err != nil {
		return fmt.Errorf("exporting summary: %w", err)
	}
	return nil
}
