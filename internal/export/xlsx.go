package export

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/mtlprog/remit/internal/domain"
)

// SheetName is the worksheet that holds exported transactions.
const SheetName = "Transactions"

// WriteXLSX writes a workbook with a single Transactions sheet. Amounts are numeric cells.
func WriteXLSX(w io.Writer, txns []domain.NormalizedTransaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := lo.Map(Header, func(h string, _ int) any { return h })
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, row := range Rows(txns) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		amount, _ := row.Amount.Float64()
		values := []any{row.Date, row.Type, amount, row.Sender, row.Receiver, row.TxID}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %s: %w", row.TxID, err)
		}
	}

	if err := f.SetColWidth(SheetName, "D", "F", 60); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
