// Package table implements the column model and the view controller behind
// every Easyfin data table: filtering, stable multi-column sorting, column
// reordering and pagination over an in-memory row collection.
//
// The package has no I/O and does not log. Its types are not safe for
// concurrent use; callers that share a Controller must serialise access.
package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Row is one business entity (a supplier, a cash-book entry, ...) as
// field name -> value. Rows are never mutated by this package.
type Row map[string]any

// DefaultIDField is the field that identifies a row when none is configured.
const DefaultIDField = "id"

// ID returns the row's identifier stored under field.
func (r Row) ID(field string) any {
	if field == "" {
		field = DefaultIDField
	}
	return r[field]
}

// Column describes one column of a table: how its value is read, how it is
// shown on screen and whether it ends up in spreadsheet exports.
type Column struct {
	ID     string
	Header string

	// Path reads the value by dot-notation ("address.city"). Ignored when
	// Accessor is set.
	Path string

	// Accessor reads the value from the row.
	Accessor func(Row) any

	// Render turns the row and its resolved value into something to display.
	// It is never the source of truth for the value unless the column has
	// no accessor.
	Render func(row Row, value any) any

	// ExportValue, when set, is the value written to spreadsheets.
	ExportValue func(Row) any

	// Size is a relative width hint for the UI.
	Size float64

	// SkipExport leaves the column out of spreadsheet exports.
	SkipExport bool
}

// HasAccessor reports whether the column reads its value directly from the row.
func (c Column) HasAccessor() bool {
	return c.Accessor != nil || c.Path != ""
}

// Validate checks that the column can produce a value.
func (c Column) Validate() error {
	if c.ID == "" {
		return errors.New("column id is required")
	}
	if !c.HasAccessor() && c.Render == nil && c.ExportValue == nil {
		return fmt.Errorf("column %q needs a path, accessor or renderer", c.ID)
	}
	return nil
}

// ValidateColumns validates every column and rejects duplicate ids.
func ValidateColumns(cols []Column) error {
	var errs []error
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("duplicate column id %q", c.ID))
		}
		seen[c.ID] = true
	}
	return errors.Join(errs...)
}

// Exportable reports whether a column belongs in spreadsheet exports.
// Any id containing "action" is excluded, even ids like "actionDate".
func Exportable(c Column) bool {
	return !c.SkipExport && c.ID != "actions" && !strings.Contains(c.ID, "action")
}

// ExportColumns filters cols down to the exportable ones, keeping declaration order.
func ExportColumns(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if Exportable(c) {
			out = append(out, c)
		}
	}
	return out
}

// ResolveValue reads the column's value from row. Missing path segments,
// nil leaves and panicking accessors all yield the empty string.
func ResolveValue(c Column, row Row) any {
	switch {
	case c.Accessor != nil:
		return callAccessor(c.Accessor, row)
	case c.Path != "":
		v, ok := Lookup(row, c.Path)
		if !ok || v == nil {
			return ""
		}
		return v
	default:
		return ""
	}
}

func callAccessor(fn func(Row) any, row Row) (v any) {
	defer func() {
		if recover() != nil {
			v = ""
		}
	}()
	v = fn(row)
	if v == nil {
		return ""
	}
	return v
}

// Lookup walks a dot-notation path through nested maps and slices.
// Numeric segments index into slices.
func Lookup(row Row, path string) (any, bool) {
	var cur any = map[string]any(row)
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case Row:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case map[string]string:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
