package table

// ColumnView is a visible column as the UI draws it.
type ColumnView struct {
	ID     string    `json:"id"`
	Header string    `json:"header"`
	Size   float64   `json:"size,omitempty"`
	Sort   Direction `json:"sort,omitempty"`
}

// RowView is one visible row: its identifier and the display text of each
// visible column, in on-screen column order.
type RowView struct {
	ID    any      `json:"id"`
	Cells []string `json:"cells"`
}

// Projection is the rendered view description handed to the UI layer.
type Projection struct {
	Columns       []ColumnView `json:"columns"`
	Rows          []RowView    `json:"rows"`
	PageIndex     int          `json:"pageIndex"`
	PageSize      int          `json:"pageSize"`
	PageCount     int          `json:"pageCount"`
	FilteredCount int          `json:"filteredCount"`
	TotalCount    int          `json:"totalCount"`
	Sorting       []SortSpec   `json:"sorting"`
	GlobalFilter  string       `json:"globalFilter"`
}

// HasPrev reports whether a previous page exists.
func (p Projection) HasPrev() bool { return p.PageIndex > 0 }

// HasNext reports whether a next page exists.
func (p Projection) HasNext() bool { return p.PageIndex < p.PageCount-1 }

// Projection renders the current page: visible rows x visible columns.
func (c *Controller) Projection() Projection {
	sortDir := make(map[string]Direction, len(c.state.Sorting))
	for _, s := range c.state.Sorting {
		sortDir[s.ColumnID] = s.Dir
	}

	cols := c.VisibleColumns()
	views := make([]ColumnView, len(cols))
	for i, col := range cols {
		views[i] = ColumnView{ID: col.ID, Header: col.Header, Size: col.Size, Sort: sortDir[col.ID]}
	}

	visible := c.VisibleRows()
	rows := make([]RowView, len(visible))
	for i, row := range visible {
		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = DisplayValue(col, row, c.opts.DateLayout)
		}
		rows[i] = RowView{ID: row.ID(c.opts.IDField), Cells: cells}
	}

	state := c.State()
	return Projection{
		Columns:       views,
		Rows:          rows,
		PageIndex:     clamp(state.PageIndex, 0, c.PageCount()-1),
		PageSize:      state.PageSize,
		PageCount:     c.PageCount(),
		FilteredCount: c.FilteredCount(),
		TotalCount:    len(c.rows),
		Sorting:       state.Sorting,
		GlobalFilter:  state.GlobalFilter,
	}
}
