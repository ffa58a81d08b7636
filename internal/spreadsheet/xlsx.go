package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXToCSV converts the first sheet of an .xlsx workbook to CSV text.
func XLSXToCSV(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return b.String(), nil
}
