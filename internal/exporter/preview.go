package exporter

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"MacroTables/internal/model"
)

// PreviewRows is how many trailing rows a preview shows.
const PreviewRows = 12

// FormatPreview renders the last n rows of table as an aligned text table.
// Undefined cells print as "NaN".
func FormatPreview(table *model.DerivedTable, n int) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "\t%s\t\n", strings.Join(table.Columns, "\t"))
	rows := table.Tail(n)
	offset := len(table.Rows) - len(rows)
	for i, r := range rows {
		cells := make([]string, 0, len(r.Values)+1)
		cells = append(cells, r.Label)
		for _, v := range r.Values {
			if v.Valid {
				cells = append(cells, fmt.Sprintf("%.2f", v.Float64))
			} else {
				cells = append(cells, "NaN")
			}
		}
		fmt.Fprintf(w, "%d\t%s\t\n", offset+i, strings.Join(cells, "\t"))
	}
	w.Flush()
	return b.String()
}
