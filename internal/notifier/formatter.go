package notifier

import (
	"fmt"
	"strings"
	"time"

	"MacroTables/internal/batch"
)

// FormatBatchSummary formats a batch report into a Telegram message.
func FormatBatchSummary(report *batch.Report) string {
	var b strings.Builder

	ok := len(report.Results) - len(report.Failed())
	b.WriteString(fmt.Sprintf("📊 <b>MacroTables</b> | %s\n\n", report.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Exported: %d/%d\n", ok, len(report.Results)))

	for _, res := range report.Results {
		if res.Err != nil {
			b.WriteString(fmt.Sprintf("❌ %s: %v\n", res.IndicatorID, res.Err))
			continue
		}
		rows, last := 0, "-"
		if res.Table != nil && len(res.Table.Rows) > 0 {
			rows = len(res.Table.Rows)
			last = res.Table.Rows[rows-1].Label
		}
		b.WriteString(fmt.Sprintf("✅ %s: %d rows, latest %s\n", res.IndicatorID, rows, last))
	}

	b.WriteString(fmt.Sprintf("\nRun %s in %v", report.RunID, report.Duration.Round(time.Millisecond)))
	return b.String()
}
