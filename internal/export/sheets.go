package export

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// SummarySheet collects one row per exported account summary.
const SummarySheet = "SUMMARY"

// SummaryHeader is the header row of SummarySheet.
var SummaryHeader = []any{"Date", "Address", "Balance (ALGO)", "Transactions", "Sent (ALGO)", "Received (ALGO)", "Average (ALGO)", "Assets"}

// SheetsWriter implements SheetWriter using the Google Sheets API.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// WriteTransactions ensures the sheet exists, then clears and rewrites it with rows.
func (w *SheetsWriter) WriteTransactions(ctx context.Context, sheet string, rows []Row) error {
	if err := w.ensureSheets(ctx, sheet); err != nil {
		return err
	}

	_, err := w.svc.Spreadsheets.Values.Clear(
		w.spreadsheetID,
		sheet+"!A:F",
		&sheets.ClearValuesRequest{},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheet %s: %w", sheet, err)
	}

	_, err = w.svc.Spreadsheets.Values.Update(
		w.spreadsheetID,
		sheet+"!A1",
		&sheets.ValueRange{Values: buildTransactionValues(rows)},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheet %s: %w", sheet, err)
	}

	return nil
}

// AppendSummary ensures SummarySheet exists, writes the header row if the sheet is empty,
// then appends one row.
func (w *SheetsWriter) AppendSummary(ctx context.Context, row SummaryRow) error {
	if err := w.ensureSheets(ctx, SummarySheet); err != nil {
		return fmt.Errorf("ensuring %s sheet: %w", SummarySheet, err)
	}

	existing, err := w.svc.Spreadsheets.Values.Get(
		w.spreadsheetID, SummarySheet+"!A1:A1",
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading %s header: %w", SummarySheet, err)
	}

	if len(existing.Values) == 0 {
		_, err = w.svc.Spreadsheets.Values.Update(
			w.spreadsheetID,
			SummarySheet+"!A1",
			&sheets.ValueRange{Values: [][]any{SummaryHeader}},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing %s header: %w", SummarySheet, err)
		}
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		SummarySheet+"!A:H",
		&sheets.ValueRange{Values: [][]any{row.Values()}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending %s row: %w", SummarySheet, err)
	}

	return nil
}

// buildTransactionValues builds sheet data: the header, then one row per transaction.
func buildTransactionValues(rows []Row) [][]any {
	data := make([][]any, 0, len(rows)+1)
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	data = append(data, header)

	for _, r := range rows {
		data = append(data, []any{r.Date, r.Type, toFloat(r.Amount), r.Sender, r.Receiver, r.TxID})
	}
	return data
}

// ensureSheets creates any of the named sheets that do not already exist.
func (w *SheetsWriter) ensureSheets(ctx context.Context, names ...string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		existing[s.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, name := range names {
		if !existing[name] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			})
		}
	}

	if len(requests) == 0 {
		return nil
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating sheets: %w", err)
	}

	return nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
