package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"MacroTables/internal/model"
)

// DefaultSheet is the sheet name used for every exported table.
const DefaultSheet = "Data"

// XLSXExporter writes one workbook per table into Dir.
type XLSXExporter struct {
	Dir   string
	Sheet string
}

// NewXLSXExporter creates an exporter rooted at dir.
func NewXLSXExporter(dir string) *XLSXExporter {
	return &XLSXExporter{Dir: dir, Sheet: DefaultSheet}
}

// Export writes the header row followed by one row per period. Undefined cells
// are left empty. It returns the path of the written file.
func (x *XLSXExporter) Export(table *model.DerivedTable, destination string) (string, error) {
	if destination == "" {
		return "", fmt.Errorf("%w: empty destination for %s", model.ErrExport, table.IndicatorID)
	}
	path := destination
	if x.Dir != "" && !filepath.IsAbs(destination) {
		path = filepath.Join(x.Dir, destination)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: create directory: %v", model.ErrExport, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", fmt.Errorf("%w: rename sheet: %v", model.ErrExport, err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("%w: write header: %v", model.ErrExport, err)
	}

	for i, r := range table.Rows {
		row := make([]interface{}, 0, len(r.Values)+1)
		row = append(row, r.Label)
		for _, v := range r.Values {
			if v.Valid {
				row = append(row, v.Float64)
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("%w: %v", model.ErrExport, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("%w: write row %d: %v", model.ErrExport, i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("%w: save %s: %v", model.ErrExport, path, err)
	}
	return path, nil
}
