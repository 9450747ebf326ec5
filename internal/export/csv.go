package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mtlprog/remit/internal/domain"
)

// WriteCSV writes the header and one line per transaction.
func WriteCSV(w io.Writer, txns []domain.NormalizedTransaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range Rows(txns) {
		if err := cw.Write(row.Strings()); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", row.TxID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
