package spreadsheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dataanalyst/internal/spreadsheet"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXToCSV(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"city", "population", "note"},
		{"Lagos", 15388000, "largest, by metro"},
		{"Cairo", 10230350, "n/a"},
	})

	got, err := spreadsheet.XLSXToCSV(data)

	require.NoError(t, err)
	assert.Equal(t, "city,population,note\nLagos,15388000,\"largest, by metro\"\nCairo,10230350,n/a\n", got)
}

func TestXLSXToCSV_NotAWorkbook(t *testing.T) {
	_, err := spreadsheet.XLSXToCSV([]byte("a,b\n1,2\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open workbook")
}
