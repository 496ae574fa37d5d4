// Package export writes spreadsheet snapshots of a table.
//
// An export always covers the complete row collection in column-model
// declaration order. On-screen sorting, filtering, pagination and column
// reordering are deliberately ignored.
package export

import (
	"encoding/json"
	"math"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/easyfin/internal/format"
	"github.com/JonMunkholm/easyfin/internal/table"
)

// MinColumnWidth is the narrowest column, in character-width units.
const MinColumnWidth = 15.0

// Sheet is the workbook content before styling: header labels, the cell
// matrix and the computed column widths.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
	Widths  []float64
}

// Build resolves every exportable cell of rows. It never fails: a cell that
// cannot be resolved becomes the empty string.
func Build(rows []table.Row, columns []table.Column, dateLayout string) *Sheet {
	cols := table.ExportColumns(columns)

	s := &Sheet{
		Headers: make([]string, len(cols)),
		Rows:    make([][]any, len(rows)),
		Widths:  make([]float64, len(cols)),
	}
	maxLen := make([]int, len(cols))

	for j, col := range cols {
		s.Headers[j] = col.Header
	}

	for i, row := range rows {
		cells := make([]any, len(cols))
		for j, col := range cols {
			v := normalize(CellValue(col, row), dateLayout)
			cells[j] = v
			if n := utf8.RuneCountInString(format.Text(v)); n > maxLen[j] {
				maxLen[j] = n
			}
		}
		s.Rows[i] = cells
	}

	for j := range cols {
		s.Widths[j] = ColumnWidth(s.Headers[j], maxLen[j])
	}
	return s
}

// ColumnWidth is max(15, len(header)*1.2, longest content + 2).
func ColumnWidth(header string, maxContent int) float64 {
	w := math.Max(MinColumnWidth, float64(utf8.RuneCountInString(header))*1.2)
	return math.Max(w, float64(maxContent+2))
}

// CellValue resolves one export cell. Precedence: ExportValue, then the
// column accessor, then the renderer's extracted value. If a step panics or
// yields nothing the row is read by the literal column id, and failing that
// the cell is empty.
func CellValue(col table.Column, row table.Row) (v any) {
	defer func() {
		if recover() != nil {
			v = fallback(col, row)
		}
	}()

	switch {
	case col.ExportValue != nil:
		v = col.ExportValue(row)
	case col.HasAccessor():
		v = table.ResolveValue(col, row)
	case col.Render != nil:
		v = table.ExtractValue(col.Render(row, table.ResolveValue(col, row)))
	default:
		v = fallback(col, row)
	}
	if v == nil {
		return fallback(col, row)
	}
	return v
}

// fallback reads row[col.ID] without path splitting.
func fallback(col table.Column, row table.Row) any {
	if v, ok := row[col.ID]; ok && v != nil {
		return v
	}
	return ""
}

// normalize converts values into something excelize writes natively.
func normalize(v any, dateLayout string) any {
	switch val := v.(type) {
	case nil:
		return ""
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case time.Time:
		return format.Date(val, dateLayout)
	default:
		return format.Text(val)
	}
}
