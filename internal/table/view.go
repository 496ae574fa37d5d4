package table

import (
	"slices"

	"golang.org/x/text/language"

	"github.com/JonMunkholm/easyfin/internal/format"
)

// DefaultPageSize is the page size of a freshly mounted table.
const DefaultPageSize = 10

// Options configure a Controller.
type Options struct {
	IDField    string       // row identifier field (default "id")
	PageSize   int          // initial page size (default DefaultPageSize)
	DateLayout string       // layout for dates in filters and cells (default pt-BR)
	Locale     language.Tag // collation locale for string sorting (default pt-BR)
}

func (o Options) withDefaults() Options {
	if o.IDField == "" {
		o.IDField = DefaultIDField
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.DateLayout == "" {
		o.DateLayout = format.DefaultDateLayout
	}
	if o.Locale == language.Und {
		o.Locale = language.BrazilianPortuguese
	}
	return o
}

// State is the transient view state of one table. It is never persisted.
type State struct {
	Sorting      []SortSpec `json:"sorting"`
	GlobalFilter string     `json:"globalFilter"`
	ColumnOrder  []string   `json:"columnOrder"`
	PageIndex    int        `json:"pageIndex"`
	PageSize     int        `json:"pageSize"`
}

// Controller holds the view state for a static row collection and computes
// the filtered, sorted and paginated projection to render. Every method is
// synchronous and total: unknown column ids and out-of-range input are
// ignored rather than reported.
type Controller struct {
	opts    Options
	columns []Column
	byID    map[string]Column
	rows    []Row
	state   State
	cmp     *comparator

	// sorted caches filter+sort until the next state change.
	sorted []Row
	fresh  bool
}

// NewController creates a controller over columns with an empty row set.
func NewController(columns []Column, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		opts:    opts,
		columns: slices.Clone(columns),
		byID:    make(map[string]Column, len(columns)),
		cmp:     newComparator(opts.Locale),
	}
	order := make([]string, 0, len(columns))
	for _, col := range columns {
		if _, dup := c.byID[col.ID]; dup {
			continue
		}
		c.byID[col.ID] = col
		order = append(order, col.ID)
	}
	c.state = State{ColumnOrder: order, PageSize: opts.PageSize}
	return c
}

// Columns returns the column model in declaration order.
func (c *Controller) Columns() []Column {
	return slices.Clone(c.columns)
}

// State returns a copy of the current view state.
func (c *Controller) State() State {
	s := c.state
	s.Sorting = slices.Clone(c.state.Sorting)
	s.ColumnOrder = slices.Clone(c.state.ColumnOrder)
	return s
}

// Rows returns the full working collection in its original order.
func (c *Controller) Rows() []Row {
	return slices.Clone(c.rows)
}

// SetRows replaces the working collection and goes back to the first page.
// Sorting, filter and column order survive a data refresh.
func (c *Controller) SetRows(rows []Row) {
	c.rows = slices.Clone(rows)
	c.state.PageIndex = 0
	c.fresh = false
}

// SetGlobalFilter sets the search text and goes back to the first page.
func (c *Controller) SetGlobalFilter(text string) {
	if text == c.state.GlobalFilter {
		return
	}
	c.state.GlobalFilter = text
	c.state.PageIndex = 0
	c.fresh = false
}

// SetSort sorts by a single column, replacing any previous sorting.
func (c *Controller) SetSort(columnID string, dir Direction) {
	c.SetSorting([]SortSpec{{ColumnID: columnID, Dir: dir}})
}

// SetSorting sets a multi-column sort. The whole call is ignored when any
// level names an unknown column or an invalid direction.
func (c *Controller) SetSorting(specs []SortSpec) {
	valid := make([]SortSpec, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if _, ok := c.byID[spec.ColumnID]; !ok {
			return
		}
		dir, ok := ParseDirection(string(spec.Dir))
		if !ok {
			return
		}
		if seen[spec.ColumnID] {
			continue
		}
		seen[spec.ColumnID] = true
		valid = append(valid, SortSpec{ColumnID: spec.ColumnID, Dir: dir})
	}
	c.state.Sorting = valid
	c.fresh = false
}

// ClearSort restores the original row order.
func (c *Controller) ClearSort() {
	c.state.Sorting = nil
	c.fresh = false
}

// ReorderColumns exchanges the positions of two columns. Columns in between
// do not move.
func (c *Controller) ReorderColumns(sourceID, targetID string) {
	if sourceID == targetID {
		return
	}
	src := slices.Index(c.state.ColumnOrder, sourceID)
	dst := slices.Index(c.state.ColumnOrder, targetID)
	if src < 0 || dst < 0 {
		return
	}
	c.state.ColumnOrder[src], c.state.ColumnOrder[dst] = c.state.ColumnOrder[dst], c.state.ColumnOrder[src]
}

// SetPage moves to page index, clamped to the available pages.
func (c *Controller) SetPage(index int) {
	c.state.PageIndex = clamp(index, 0, c.PageCount()-1)
}

// SetPageSize changes the page size and goes back to the first page.
// Non-positive sizes are ignored.
func (c *Controller) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	c.state.PageSize = size
	c.state.PageIndex = 0
}

// PageCount is the number of pages of the filtered set, at least 1.
func (c *Controller) PageCount() int {
	n := len(c.sortedRows())
	pages := (n + c.state.PageSize - 1) / c.state.PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// FilteredCount is the number of rows passing the global filter.
func (c *Controller) FilteredCount() int {
	return len(c.sortedRows())
}

// VisibleRows runs filter, then sort, then pagination, in that order.
func (c *Controller) VisibleRows() []Row {
	rows := c.sortedRows()
	page := clamp(c.state.PageIndex, 0, c.PageCount()-1)
	start := page * c.state.PageSize
	if start >= len(rows) {
		return []Row{}
	}
	end := min(start+c.state.PageSize, len(rows))
	return slices.Clone(rows[start:end])
}

// VisibleColumns returns the columns in the current on-screen order.
func (c *Controller) VisibleColumns() []Column {
	out := make([]Column, 0, len(c.state.ColumnOrder))
	for _, id := range c.state.ColumnOrder {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Controller) sortedRows() []Row {
	if c.fresh {
		return c.sorted
	}
	filtered := make([]Row, 0, len(c.rows))
	for _, row := range c.rows {
		if MatchesFilter(row, c.state.GlobalFilter, c.opts.DateLayout) {
			filtered = append(filtered, row)
		}
	}
	c.sorted = sortRows(filtered, c.byID, c.state.Sorting, c.cmp)
	c.fresh = true
	return c.sorted
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}
