package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"MacroTables/internal/model"
)

func sampleTable() *model.DerivedTable {
	return &model.DerivedTable{
		IndicatorID: "inflation",
		Columns:     []string{"YearMonth", "MonthlyInflationPct", "YearToDateInflationPct"},
		Rows: []model.Row{
			{Label: "2024-01", Values: []null.Float{{}, {}}},
			{Label: "2024-02", Values: []null.Float{null.FloatFrom(2), null.FloatFrom(2)}},
			{Label: "2024-03", Values: []null.Float{null.FloatFrom(-0.03), null.FloatFrom(1.97)}},
		},
	}
}

func TestXLSXExporter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	x := NewXLSXExporter(dir)

	path, err := x.Export(sampleTable(), "inflation_us.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "inflation_us.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"YearMonth", "MonthlyInflationPct", "YearToDateInflationPct"}, rows[0])
	assert.Equal(t, []string{"2024-01"}, rows[1], "undefined cells stay empty")
	assert.Equal(t, []string{"2024-02", "2", "2"}, rows[2])
	assert.Equal(t, []string{"2024-03", "-0.03", "1.97"}, rows[3])
}

func TestXLSXExporter_Errors(t *testing.T) {
	x := NewXLSXExporter(t.TempDir())
	_, err := x.Export(sampleTable(), "")
	assert.ErrorIs(t, err, model.ErrExport)

	// A regular file where the output directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	_, err = NewXLSXExporter(blocker).Export(sampleTable(), "t.xlsx")
	assert.ErrorIs(t, err, model.ErrExport)
}

func TestFormatPreview(t *testing.T) {
	table := sampleTable()
	out := FormatPreview(table, 2)

	assert.Contains(t, out, "YearToDateInflationPct")
	assert.NotContains(t, out, "2024-01")
	assert.Contains(t, out, "2024-02")
	assert.Contains(t, out, "-0.03")
	assert.Contains(t, out, "1.97")

	full := FormatPreview(table, PreviewRows)
	assert.Contains(t, full, "NaN")
	assert.Contains(t, full, "2024-01")
}
