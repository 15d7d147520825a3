// Package export renders tabular reports as CSV documents.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoRows is returned when a report has nothing to export.
var ErrNoRows = errors.New("export: no rows")

// Marshal renders rows into a CSV document with a header line. Column order
// follows columns exactly; a nil cell renders empty. Values containing a
// comma or a double quote are wrapped in double quotes, with inner quotes
// doubled.
func Marshal(columns []string, rows []map[string]any) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}

	var b strings.Builder
	writeRecord(&b, columns)

	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = cellString(row[col])
		}
		writeRecord(&b, record)
	}

	return b.String(), nil
}

// Filename returns "<report>_<YYYY-MM-DD>.csv" for the given instant.
func Filename(report string, t time.Time) string {
	return fmt.Sprintf("%s_%s.csv", report, t.Format("2006-01-02"))
}

func writeRecord(b *strings.Builder, record []string) {
	for i, field := range record {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escape(field))
	}
	b.WriteByte('\n')
}

func escape(field string) string {
	if !strings.ContainsAny(field, `,"`) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	switch value := v.(type) {
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}
