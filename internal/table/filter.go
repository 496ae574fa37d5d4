package table

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/easyfin/internal/format"
)

// MatchesFilter reports whether any value anywhere in the row contains
// needle, case-insensitively. The whole row is searched, not only visible
// columns. ISO-like date strings are compared in their dateLayout form, so
// "01/03/2024" finds "2024-03-01T00:00:00Z". An empty needle matches.
func MatchesFilter(row Row, needle, dateLayout string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	if dateLayout == "" {
		dateLayout = format.DefaultDateLayout
	}
	for _, v := range flattenValues(map[string]any(row), nil, dateLayout) {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// flattenValues appends the searchable string form of every leaf in v.
func flattenValues(v any, out []string, dateLayout string) []string {
	switch val := v.(type) {
	case nil:
		return out
	case string:
		if format.LooksLikeISODate(val) {
			return append(out, format.Date(val, dateLayout))
		}
		return append(out, val)
	case time.Time:
		return append(out, format.Date(val, dateLayout))
	case Row:
		for _, child := range val {
			out = flattenValues(child, out, dateLayout)
		}
		return out
	case map[string]any:
		for _, child := range val {
			out = flattenValues(child, out, dateLayout)
		}
		return out
	case map[string]string:
		for _, child := range val {
			out = flattenValues(child, out, dateLayout)
		}
		return out
	case []any:
		for _, child := range val {
			out = flattenValues(child, out, dateLayout)
		}
		return out
	case []string:
		for _, child := range val {
			out = flattenValues(child, out, dateLayout)
		}
		return out
	case fmt.Stringer:
		return append(out, val.String())
	default:
		return append(out, format.Text(val))
	}
}
