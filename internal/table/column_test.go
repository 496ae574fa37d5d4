package table

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveValue(t *testing.T) {
	row := Row{
		"id":   1,
		"name": "Acme",
		"address": map[string]any{
			"city": "Campinas",
			"geo":  map[string]any{"lat": -22.9},
		},
		"phones": []any{"1133334444", "11999998888"},
		"empty":  nil,
	}

	tests := []struct {
		name string
		col  Column
		want any
	}{
		{"flat path", Column{ID: "name", Path: "name"}, "Acme"},
		{"nested path", Column{ID: "city", Path: "address.city"}, "Campinas"},
		{"deep path", Column{ID: "lat", Path: "address.geo.lat"}, -22.9},
		{"slice index", Column{ID: "phone", Path: "phones.1"}, "11999998888"},
		{"missing segment", Column{ID: "missing", Path: "x.y.z"}, ""},
		{"missing leaf", Column{ID: "zip", Path: "address.zip"}, ""},
		{"through scalar", Column{ID: "bad", Path: "name.first"}, ""},
		{"index out of range", Column{ID: "phone", Path: "phones.5"}, ""},
		{"nil leaf", Column{ID: "empty", Path: "empty"}, ""},
		{"accessor", Column{ID: "upper", Accessor: func(r Row) any { return strings.ToUpper(r["name"].(string)) }}, "ACME"},
		{"accessor panics", Column{ID: "boom", Accessor: func(r Row) any { return r["nope"].(string) }}, ""},
		{"accessor returns nil", Column{ID: "nil", Accessor: func(Row) any { return nil }}, ""},
		{"accessor wins over path", Column{ID: "both", Path: "name", Accessor: func(Row) any { return 7 }}, 7},
		{"renderer only", Column{ID: "actions", Render: func(Row, any) any { return "edit" }}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveValue(tt.col, row)
			if got != tt.want {
				t.Errorf("ResolveValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExportable(t *testing.T) {
	tests := []struct {
		col  Column
		want bool
	}{
		{Column{ID: "name"}, true},
		{Column{ID: "actions"}, false},
		{Column{ID: "row-actions"}, false},
		{Column{ID: "actionDate"}, false},
		{Column{ID: "Actions"}, true},
		{Column{ID: "amount", SkipExport: true}, false},
	}

	for _, tt := range tests {
		if got := Exportable(tt.col); got != tt.want {
			t.Errorf("Exportable(%q) = %v, want %v", tt.col.ID, got, tt.want)
		}
	}
}

func TestExportColumns_KeepsDeclarationOrder(t *testing.T) {
	cols := []Column{{ID: "name"}, {ID: "actions"}, {ID: "row-actions"}, {ID: "amount"}}

	var ids []string
	for _, c := range ExportColumns(cols) {
		ids = append(ids, c.ID)
	}

	if diff := cmp.Diff([]string{"name", "amount"}, ids); diff != "" {
		t.Errorf("ExportColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateColumns(t *testing.T) {
	ok := []Column{
		{ID: "name", Path: "name"},
		{ID: "actions", Render: func(Row, any) any { return "" }},
	}
	if err := ValidateColumns(ok); err != nil {
		t.Errorf("ValidateColumns(valid) = %v", err)
	}

	bad := []Column{
		{ID: "name", Path: "name"},
		{ID: "name", Path: "other"},
		{ID: "noop"},
		{Path: "x"},
	}
	err := ValidateColumns(bad)
	if err == nil {
		t.Fatal("ValidateColumns(invalid) returned nil")
	}
	for _, want := range []string{"duplicate column id", "needs a path", "id is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
