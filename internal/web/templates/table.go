package templates

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/easyfin/internal/core"
	"github.com/JonMunkholm/easyfin/internal/table"
)

// TableView renders the full page of a table.
func TableView(v *core.TableView) templ.Component {
	return Layout(v.Info.Label, TablePartial(v))
}

// TablePartial renders the toolbar, grid and pager. HTMX requests swap it
// in place.
func TablePartial(v *core.TableView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &page{w: w}
		key := v.Info.Key
		proj := v.Projection

		p.printf(`<div id="table-view" data-table="%s">`, templ.EscapeString(key))
		p.raw(`<div class="toolbar"><h1>`)
		p.text(v.Info.Label)
		p.raw(`</h1>`)

		p.printf(`<form class="search" method="get" action="%s" hx-get="%[1]s" hx-target="#table-view" hx-swap="outerHTML">`,
			templ.EscapeString(tableHref(key, nil)))
		p.printf(`<input type="search" name="search" value="%s" placeholder="Pesquisar">`,
			templ.EscapeString(proj.GlobalFilter))
		p.raw(`</form>`)

		p.printf(`<form method="post" action="%s" hx-post="%[1]s" hx-target="#table-view" hx-swap="outerHTML">`,
			templ.EscapeString(apiHref(key, "refresh", nil)))
		p.raw(`<button type="submit">Atualizar</button></form>`)
		p.printf(`<a class="button" href="%s">Exportar Excel</a>`,
			templ.EscapeString(string(templ.URL("/api/export/"+key))))
		p.raw(`</div>`)

		p.raw(`<table class="grid"><thead><tr>`)
		for i, col := range proj.Columns {
			p.raw(`<th>`)
			p.printf(`<a href="%s" hx-get="%[1]s" hx-target="#table-view" hx-swap="outerHTML">`,
				templ.EscapeString(sortHref(key, col)))
			p.text(col.Header)
			switch col.Sort {
			case table.Asc:
				p.raw(` ▲`)
			case table.Desc:
				p.raw(` ▼`)
			}
			p.raw(`</a>`)
			if i > 0 {
				moveButton(p, key, col.ID, proj.Columns[i-1].ID, "◀")
			}
			if i < len(proj.Columns)-1 {
				moveButton(p, key, col.ID, proj.Columns[i+1].ID, "▶")
			}
			p.raw(`</th>`)
		}
		p.raw(`</tr></thead><tbody>`)

		if len(proj.Rows) == 0 {
			p.printf(`<tr><td class="empty" colspan="%d">Nenhum registro encontrado.</td></tr>`, max(len(proj.Columns), 1))
		}
		for _, row := range proj.Rows {
			p.raw(`<tr>`)
			for _, cell := range row.Cells {
				p.raw(`<td>`)
				p.text(cell)
				p.raw(`</td>`)
			}
			p.raw(`</tr>`)
		}
		p.raw(`</tbody></table>`)

		pager(p, key, proj)
		p.raw(`</div>`)
		return p.err
	})
}

func moveButton(p *page, key, source, target, label string) {
	q := url.Values{"source": {source}, "target": {target}}
	p.printf(`<form class="move" method="post" action="%s" hx-post="%[1]s" hx-target="#table-view" hx-swap="outerHTML">`,
		templ.EscapeString(apiHref(key, "reorder", q)))
	p.printf(`<button type="submit">%s</button></form>`, label)
}

func pager(p *page, key string, proj table.Projection) {
	p.raw(`<nav class="pager">`)
	p.printf(`<span class="count">%d de %d registros</span>`, proj.FilteredCount, proj.TotalCount)
	if proj.HasPrev() {
		pageLink(p, key, proj.PageIndex, "Anterior")
	}
	p.printf(`<span class="page">Página %d de %d</span>`, proj.PageIndex+1, max(proj.PageCount, 1))
	if proj.HasNext() {
		pageLink(p, key, proj.PageIndex+2, "Próxima")
	}
	p.raw(`</nav>`)
}

// pageLink links to a 1-based page number.
func pageLink(p *page, key string, number int, label string) {
	href := tableHref(key, url.Values{"page": {strconv.Itoa(number)}})
	p.printf(`<a href="%s" hx-get="%[1]s" hx-target="#table-view" hx-swap="outerHTML">%s</a>`,
		templ.EscapeString(href), label)
}

// sortHref cycles a column through ascending, descending and unsorted.
func sortHref(key string, col table.ColumnView) string {
	q := url.Values{"sort": {col.ID}}
	switch col.Sort {
	case table.Asc:
		q.Set("dir", string(table.Desc))
	case table.Desc:
		q = url.Values{"sort": {""}}
	default:
		q.Set("dir", string(table.Asc))
	}
	return tableHref(key, q)
}

func tableHref(key string, q url.Values) string {
	u := "/table/" + url.PathEscape(key)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func apiHref(key, action string, q url.Values) string {
	u := "/api/table/" + url.PathEscape(key) + "/" + action
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}
