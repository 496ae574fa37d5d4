// Package format provides the display masks used across Easyfin screens:
// Brazilian currency, CPF/CNPJ documents, phone numbers and dates.
//
// Every mask is lenient: input that does not fit the mask is returned
// unchanged (as its string form) so a malformed record never breaks a
// table render or an export.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultDateLayout renders dates the way pt-BR users read them.
const DefaultDateLayout = "02/01/2006"

// isoDatePattern matches strings that start like an ISO-8601 date (YYYY-MM-DD...).
var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// isoLayouts are tried in order when parsing ISO-like date strings.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LooksLikeISODate reports whether s starts with a YYYY-MM-DD date.
func LooksLikeISODate(s string) bool {
	return isoDatePattern.MatchString(s)
}

// ParseISODate parses an ISO-like date string. Strings that only start with
// a valid date (e.g. "2024-03-01 garbage") fall back to the date prefix.
func ParseISODate(s string) (time.Time, bool) {
	if !LooksLikeISODate(s) {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Date formats a time.Time or an ISO-like date string with layout.
// The time keeps its own location; "2024-03-01T00:00:00Z" renders as
// 01/03/2024 regardless of the server time zone.
func Date(v any, layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(layout)
	case *time.Time:
		if val == nil || val.IsZero() {
			return ""
		}
		return val.Format(layout)
	case string:
		if t, ok := ParseISODate(val); ok {
			return t.Format(layout)
		}
		return val
	default:
		return fmt.Sprint(v)
	}
}

// Currency renders a value as Brazilian reais: R$ 1.234,56.
// Numeric strings are accepted; anything else is returned unchanged.
func Currency(v any) string {
	f, ok := Float(v)
	if !ok {
		return Text(v)
	}
	p := message.NewPrinter(language.BrazilianPortuguese)
	s := p.Sprintf("%.2f", math.Abs(f))
	if f < 0 {
		return "-R$ " + s
	}
	return "R$ " + s
}

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Document masks a CPF (11 digits) or CNPJ (14 digits).
func Document(v any) string {
	s := Text(v)
	d := Digits(s)
	switch len(d) {
	case 11:
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	case 14:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	default:
		return s
	}
}

// Phone masks landline (10 digits) and mobile (11 digits) numbers.
func Phone(v any) string {
	s := Text(v)
	d := Digits(s)
	switch len(d) {
	case 10:
		return "(" + d[0:2] + ") " + d[2:6] + "-" + d[6:10]
	case 11:
		return "(" + d[0:2] + ") " + d[2:7] + "-" + d[7:11]
	default:
		return s
	}
}

// Text is the plain string form of a cell value; nil becomes "".
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case json.Number:
		return val.String()
	case time.Time:
		return Date(val, DefaultDateLayout)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}

// Float converts numeric values and numeric strings to float64.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Mask is a named display mask usable from column configuration.
type Mask func(any) string

// ByName looks up a mask by the name used in column model files.
func ByName(name string) (Mask, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "currency", "brl":
		return Currency, true
	case "document", "cpf_cnpj", "cpf", "cnpj":
		return Document, true
	case "phone":
		return Phone, true
	case "date":
		return func(v any) string { return Date(v, DefaultDateLayout) }, true
	default:
		return nil, false
	}
}
