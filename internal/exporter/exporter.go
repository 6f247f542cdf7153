// Package exporter writes derived tables to spreadsheet files and renders
// console previews of them.
package exporter

import "MacroTables/internal/model"

// Exporter persists a derived table under a destination name.
// Failures wrap model.ErrExport.
type Exporter interface {
	Export(table *model.DerivedTable, destination string) (string, error)
}
