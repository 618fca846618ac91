// Package report renders transaction lists as xlsx workbooks.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"moneymanager/internal/models"
)

var headers = []string{"No", "Name", "Category", "Amount", "Date"}

// SpreadsheetMIME is the content type for xlsx downloads.
const SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Row struct {
	Name         string
	CategoryName string
	Amount       decimal.Decimal
	Date         models.Date
}

// FromTransactions adapts query results for the builder.
func FromTransactions(list []models.Transaction) []Row {
	rows := make([]Row, 0, len(list))
	for _, t := range list {
		rows = append(rows, Row{
			Name:         t.Name,
			CategoryName: t.CategoryName,
			Amount:       t.Amount,
			Date:         t.Date,
		})
	}
	return rows
}

// Build renders rows into a single-sheet workbook: a styled header, one row
// per transaction with a running serial number, and a bold "Total:" row
// holding the exact sum. An empty input yields header plus zero total.
func Build(sheetName string, rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F3864"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("total style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}
	}

	total := decimal.Zero
	for i, row := range rows {
		rowIdx := i + 2
		category := row.CategoryName
		if category == "" {
			category = "N/A"
		}
		values := []any{i + 1, row.Name, category, row.Amount.InexactFloat64(), row.Date.String()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", rowIdx, err)
			}
		}
		total = total.Add(row.Amount)
	}

	totalRow := len(rows) + 2
	labelCell, _ := excelize.CoordinatesToCellName(3, totalRow)
	amountCell, _ := excelize.CoordinatesToCellName(4, totalRow)
	if err := f.SetCellValue(sheetName, labelCell, "Total:"); err != nil {
		return nil, fmt.Errorf("write total label: %w", err)
	}
	if err := f.SetCellValue(sheetName, amountCell, total.InexactFloat64()); err != nil {
		return nil, fmt.Errorf("write total amount: %w", err)
	}
	if err := f.SetCellStyle(sheetName, labelCell, amountCell, boldStyle); err != nil {
		return nil, fmt.Errorf("style total row: %w", err)
	}

	if err := f.SetColWidth(sheetName, "A", "A", 6); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "E", 18); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
