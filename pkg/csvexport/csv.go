package csvexport

import (
	"errors"
	"strings"
)

// ErrEmptyInput is returned when there are no rows to export.
var ErrEmptyInput = errors.New("no data to export")

// Row is one record of a homogeneous table.
type Row interface {
	CSVHeader() []string
	CSVRecord() []string
}

// Encode renders rows as CSV text. The header is taken from the first row.
// Lines are joined by "\n" without a trailing newline.
func Encode[R Row](rows []R) (string, error) {
	if len(rows) == 0 {
		return "", ErrEmptyInput
	}
	header := rows[0].CSVHeader()
	var b strings.Builder
	writeLine(&b, header)
	for _, r := range rows {
		b.WriteByte('\n')
		rec := r.CSVRecord()
		fields := make([]string, len(header))
		copy(fields, rec)
		writeLine(&b, fields)
	}
	return b.String(), nil
}

func writeLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Escape(f))
	}
}

// Escape quotes a field containing a comma, double quote or line break and
// doubles any embedded quotes. Other fields are returned unchanged.
func Escape(field string) string {
	if !strings.ContainsAny(field, ",\"\r\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
