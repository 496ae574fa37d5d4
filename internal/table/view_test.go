package table

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(rows []Row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}

func supplierColumns() []Column {
	return []Column{
		{ID: "name", Header: "Name", Path: "name"},
		{ID: "amount", Header: "Amount", Path: "amount"},
		{ID: "v", Header: "V", Path: "v"},
		{ID: "actions", Header: "", Render: func(Row, any) any { return "edit" }},
	}
}

func TestController_StableSort(t *testing.T) {
	c := NewController(supplierColumns(), Options{})
	c.SetRows([]Row{{"id": 1, "v": 5}, {"id": 2, "v": 5}, {"id": 3, "v": 1}})

	c.SetSort("v", Asc)
	if diff := cmp.Diff([]any{3, 1, 2}, ids(c.VisibleRows())); diff != "" {
		t.Errorf("asc mismatch (-want +got):\n%s", diff)
	}

	c.SetSort("v", Desc)
	if diff := cmp.Diff([]any{1, 2, 3}, ids(c.VisibleRows())); diff != "" {
		t.Errorf("desc keeps ties in original order (-want +got):\n%s", diff)
	}
}

func TestController_MultiColumnSort(t *testing.T) {
	c := NewController(supplierColumns(), Options{})
	c.SetRows([]Row{
		{"id": 1, "name": "beta", "amount": 10},
		{"id": 2, "name": "Alpha", "amount": 20},
		{"id": 3, "name": "alpha", "amount": 10},
		{"id": 4, "name": "Ábaco", "amount": 5},
	})

	c.SetSorting([]SortSpec{{ColumnID: "name", Dir: Asc}, {ColumnID: "amount", Dir: Desc}})

	// Ábaco collates among the a's; Alpha and alpha tie on name.
	if diff := cmp.Diff([]any{4, 2, 3, 1}, ids(c.VisibleRows())); diff != "" {
		t.Errorf("multi sort mismatch (-want +got):\n%s", diff)
	}
}

func TestController_SortMixedValues(t *testing.T) {
	c := NewController(supplierColumns(), Options{})
	c.SetRows([]Row{
		{"id": 1, "amount": 100},
		{"id": 2},
		{"id": 3, "amount": 9.5},
		{"id": 4, "amount": int64(50)},
	})

	c.SetSort("amount", Asc)
	if diff := cmp.Diff([]any{2, 3, 4, 1}, ids(c.VisibleRows())); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestController_InvalidSortIsNoop(t *testing.T) {
	c := NewController(supplierColumns(), Options{})
	c.SetRows([]Row{{"id": 1, "v": 2}, {"id": 2, "v": 1}})
	c.SetSort("v", Asc)

	c.SetSort("nope", Desc)
	c.SetSort("v", "sideways")

	if diff := cmp.Diff([]SortSpec{{ColumnID: "v", Dir: Asc}}, c.State().Sorting); diff != "" {
		t.Errorf("sorting changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{2, 1}, ids(c.VisibleRows())); diff != "" {
		t.Errorf("rows changed (-want +got):\n%s", diff)
	}

	c.ClearSort()
	if diff := cmp.Diff([]any{1, 2}, ids(c.VisibleRows())); diff != "" {
		t.Errorf("ClearSort mismatch (-want +got):\n%s", diff)
	}
}

func TestController_ReorderSwaps(t *testing.T) {
	c := NewController([]Column{
		{ID: "a", Path: "a"}, {ID: "b", Path: "b"}, {ID: "c", Path: "c"},
	}, Options{})

	c.ReorderColumns("a", "c")
	if diff := cmp.Diff([]string{"c", "b", "a"}, c.State().ColumnOrder); diff != "" {
		t.Errorf("swap mismatch (-want +got):\n%s", diff)
	}

	c.ReorderColumns("a", "missing")
	c.ReorderColumns("b", "b")
	if diff := cmp.Diff([]string{"c", "b", "a"}, c.State().ColumnOrder); diff != "" {
		t.Errorf("no-op reorder changed order (-want +got):\n%s", diff)
	}

	var got []string
	for _, col := range c.VisibleColumns() {
		got = append(got, col.ID)
	}
	if diff := cmp.Diff([]string{"c", "b", "a"}, got); diff != "" {
		t.Errorf("VisibleColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestController_GlobalFilter(t *testing.T) {
	c := NewController(supplierColumns(), Options{})
	c.SetRows([]Row{
		{"id": 1, "date": "2024-03-01T00:00:00Z", "name": "Bob"},
		{"id": 2, "name": "Alice", "address": map[string]any{"city": "Recife"}},
		{"id": 3, "name": "Carol", "tags": []any{"VIP", "fornecedor"}},
	})

	tests := []struct {
		filter string
		want   []any
	}{
		{"", []any{1, 2, 3}},
		{"01/03/2024", []any{1}},
		{"bob", []any{1}},
		{"RECIFE", []any{2}},
		{"vip", []any{3}},
		{"2", []any{1, 2}},
		{"zzz", []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			c.SetGlobalFilter(tt.filter)
			if diff := cmp.Diff(tt.want, ids(c.VisibleRows())); diff != "" {
				t.Errorf("filter %q mismatch (-want +got):\n%s", tt.filter, diff)
			}
		})
	}
}

func TestController_FilterBeforeSortAndPaginate(t *testing.T) {
	c := NewController(supplierColumns(), Options{PageSize: 2})
	var rows []Row
	for i := 1; i <= 9; i++ {
		name := fmt.Sprintf("other-%d", i)
		if i%3 == 0 {
			name = fmt.Sprintf("match-%d", i)
		}
		rows = append(rows, Row{"id": i, "name": name, "v": 10 - i})
	}
	c.SetRows(rows)
	c.SetSort("v", Asc)
	c.SetGlobalFilter("match")

	if got := c.FilteredCount(); got != 3 {
		t.Fatalf("FilteredCount = %d, want 3", got)
	}
	if got := c.PageCount(); got != 2 {
		t.Fatalf("PageCount = %d, want 2", got)
	}

	var seen []any
	for page := 0; page < c.PageCount(); page++ {
		c.SetPage(page)
		for _, r := range c.VisibleRows() {
			if !strings.HasPrefix(r["name"].(string), "match") {
				t.Errorf("row %v fails the filter", r["id"])
			}
			seen = append(seen, r["id"])
		}
	}
	if diff := cmp.Diff([]any{9, 6, 3}, seen); diff != "" {
		t.Errorf("paged rows mismatch (-want +got):\n%s", diff)
	}
}

func TestController_Pagination(t *testing.T) {
	c := NewController(supplierColumns(), Options{PageSize: 3})
	var rows []Row
	for i := 1; i <= 7; i++ {
		rows = append(rows, Row{"id": i})
	}
	c.SetRows(rows)

	if got := c.PageCount(); got != 3 {
		t.Fatalf("PageCount = %d, want 3", got)
	}

	c.SetPage(2)
	if diff := cmp.Diff([]any{7}, ids(c.VisibleRows())); diff != "" {
		t.Errorf("last page mismatch (-want +got):\n%s", diff)
	}

	c.SetPage(99)
	if got := c.State().PageIndex; got != 2 {
		t.Errorf("SetPage(99) PageIndex = %d, want 2", got)
	}
	c.SetPage(-4)
	if got := c.State().PageIndex; got != 0 {
		t.Errorf("SetPage(-4) PageIndex = %d, want 0", got)
	}

	c.SetPage(1)
	c.SetPageSize(5)
	if got := c.State(); got.PageIndex != 0 || got.PageSize != 5 {
		t.Errorf("after SetPageSize state = %+v, want page 0 size 5", got)
	}

	c.SetPageSize(0)
	if got := c.State().PageSize; got != 5 {
		t.Errorf("SetPageSize(0) changed size to %d", got)
	}
}

func TestController_SetRowsKeepsViewState(t *testing.T) {
	c := NewController(supplierColumns(), Options{PageSize: 1})
	c.SetRows([]Row{{"id": 1, "name": "a"}, {"id": 2, "name": "b"}, {"id": 3, "name": "c"}})
	c.SetSort("name", Desc)
	c.SetGlobalFilter("")
	c.ReorderColumns("name", "amount")
	c.SetPage(2)

	c.SetRows([]Row{{"id": 4, "name": "d"}, {"id": 5, "name": "e"}})

	state := c.State()
	if state.PageIndex != 0 {
		t.Errorf("PageIndex = %d, want 0", state.PageIndex)
	}
	if diff := cmp.Diff([]SortSpec{{ColumnID: "name", Dir: Desc}}, state.Sorting); diff != "" {
		t.Errorf("sorting lost (-want +got):\n%s", diff)
	}
	if state.ColumnOrder[0] != "amount" {
		t.Errorf("column order lost: %v", state.ColumnOrder)
	}
	if diff := cmp.Diff([]any{5}, ids(c.VisibleRows())); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestController_ProjectionIdempotent(t *testing.T) {
	c := NewController(supplierColumns(), Options{})
	c.SetRows([]Row{
		{"id": 1, "name": "Acme", "amount": 100},
		{"id": 2, "name": "Zeta", "amount": 50},
	})
	c.SetSort("amount", Asc)

	first := c.Projection()
	second := c.Projection()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("projection not idempotent (-first +second):\n%s", diff)
	}

	if diff := cmp.Diff([]any{2, 1}, []any{first.Rows[0].ID, first.Rows[1].ID}); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got := first.Rows[0].Cells; got[0] != "Zeta" || got[1] != "50" || got[3] != "edit" {
		t.Errorf("cells = %v", got)
	}
	if first.Columns[1].Sort != Asc {
		t.Errorf("amount column sort = %q, want asc", first.Columns[1].Sort)
	}
	if first.TotalCount != 2 || first.FilteredCount != 2 || first.PageCount != 1 {
		t.Errorf("counts = %d/%d/%d", first.TotalCount, first.FilteredCount, first.PageCount)
	}
	if first.HasPrev() || first.HasNext() {
		t.Error("single page should have no prev/next")
	}
}

func TestController_EmptyRows(t *testing.T) {
	c := NewController(supplierColumns(), Options{})

	if got := c.VisibleRows(); len(got) != 0 {
		t.Errorf("VisibleRows = %v, want empty", got)
	}
	if got := c.PageCount(); got != 1 {
		t.Errorf("PageCount = %d, want 1", got)
	}
	c.SetPage(3)
	if got := c.State().PageIndex; got != 0 {
		t.Errorf("PageIndex = %d, want 0", got)
	}
}
