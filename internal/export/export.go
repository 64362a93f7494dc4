// Package export renders search results as downloadable spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"aptdeals/server/internal/models"

	"github.com/xuri/excelize/v2"
)

// Header lists the display columns in output order.
var Header = []string{
	"Complex",
	"Deal Type",
	"Price/Deposit (10k KRW)",
	"Monthly Rent (10k KRW)",
	"Area (m²)",
	"Area Band",
	"Floor",
	"Deal Date",
	"Legal Dong",
	"Build Year",
}

var columnWidths = []float64{30, 14, 22, 22, 12, 20, 8, 12, 14, 12}

const sheetName = "Transactions"

// utf-8 byte order mark so spreadsheet apps detect the encoding of Korean names
var bom = []byte{0xEF, 0xBB, 0xBF}

func row(r models.TransactionRecord) []any {
	var buildYear any
	if r.BuildYear > 0 {
		buildYear = r.BuildYear
	}
	return []any{
		r.ComplexName,
		r.DealType.String(),
		r.PriceOrDeposit,
		r.MonthlyRent,
		r.FloorArea,
		r.AreaBand,
		r.FloorNumber,
		r.DealDate().Format("2006-01-02"),
		r.LegalDong,
		buildYear,
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// WriteCSV writes records as UTF-8 CSV with a byte order mark and a header row.
func WriteCSV(w io.Writer, records []models.TransactionRecord) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	line := make([]string, len(Header))
	for _, r := range records {
		for i, v := range row(r) {
			line[i] = stringify(v)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes records as a single-sheet workbook with a styled header row.
func WriteXLSX(w io.Writer, records []models.TransactionRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerCells := make([]any, len(Header))
	for i, h := range Header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerCells); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		values := row(r)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
