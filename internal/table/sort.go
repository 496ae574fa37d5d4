package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/easyfin/internal/format"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc"/"desc" in any case.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	default:
		return "", false
	}
}

// SortSpec is one level of a multi-column sort.
type SortSpec struct {
	ColumnID string    `json:"column"`
	Dir      Direction `json:"dir"`
}

// comparator orders resolved cell values. Strings use locale collation.
type comparator struct {
	coll *collate.Collator
}

func newComparator(tag language.Tag) *comparator {
	return &comparator{coll: collate.New(tag, collate.IgnoreCase, collate.Numeric)}
}

// compare returns -1, 0 or 1. Empty values sort first.
func (c *comparator) compare(a, b any) int {
	aEmpty, bEmpty := isEmpty(a), isEmpty(b)
	switch {
	case aEmpty && bEmpty:
		return 0
	case aEmpty:
		return -1
	case bEmpty:
		return 1
	}

	if _, isStr := a.(string); !isStr {
		if _, isStr := b.(string); !isStr {
			if fa, ok := format.Float(a); ok {
				if fb, ok := format.Float(b); ok {
					return cmp.Compare(fa, fb)
				}
			}
		}
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}

	return c.coll.CompareString(sortText(a), sortText(b))
}

func sortText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// sortRows returns a stably sorted copy of rows. Ties keep their original
// relative order in both directions.
func sortRows(rows []Row, cols map[string]Column, specs []SortSpec, c *comparator) []Row {
	out := slices.Clone(rows)
	if len(specs) == 0 || len(out) < 2 {
		return out
	}

	type keyed struct {
		row  Row
		keys []any
	}
	items := make([]keyed, len(out))
	for i, row := range out {
		keys := make([]any, len(specs))
		for k, spec := range specs {
			keys[k] = ResolveValue(cols[spec.ColumnID], row)
		}
		items[i] = keyed{row: row, keys: keys}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		for k, spec := range specs {
			r := c.compare(a.keys[k], b.keys[k])
			if r == 0 {
				continue
			}
			if spec.Dir == Desc {
				return -r
			}
			return r
		}
		return 0
	})

	for i := range items {
		out[i] = items[i].row
	}
	return out
}
