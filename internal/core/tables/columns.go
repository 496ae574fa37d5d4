package tables

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/easyfin/internal/format"
	"github.com/JonMunkholm/easyfin/internal/table"
)

// Column builders shared by the table definitions. Columns with a path are
// exported with their raw value; renderer-only columns are exported through
// value extraction.

func text(id, header string) table.Column {
	return table.Column{ID: id, Header: header, Path: id}
}

func nested(id, header, path string) table.Column {
	return table.Column{ID: id, Header: header, Path: path}
}

func currency(id, header string) table.Column {
	return table.Column{
		ID:     id,
		Header: header,
		Path:   id,
		Size:   1.2,
		Render: func(_ table.Row, v any) any {
			return table.El("span", map[string]any{"class": "num"}, format.Currency(v))
		},
	}
}

func percent(id, header string) table.Column {
	return table.Column{
		ID:     id,
		Header: header,
		Path:   id,
		Render: func(_ table.Row, v any) any {
			f, ok := format.Float(v)
			if !ok {
				return v
			}
			return fmt.Sprintf("%s%%", format.Text(f))
		},
	}
}

func document(id, header string) table.Column {
	return table.Column{
		ID:     id,
		Header: header,
		Path:   id,
		Render: func(_ table.Row, v any) any { return format.Document(v) },
	}
}

func phone(id, header string) table.Column {
	return table.Column{
		ID:     id,
		Header: header,
		Path:   id,
		Render: func(_ table.Row, v any) any { return format.Phone(v) },
	}
}

// date columns export the formatted date rather than the raw ISO string.
func date(id, header string) table.Column {
	return table.Column{
		ID:     id,
		Header: header,
		Path:   id,
		Render: func(_ table.Row, v any) any { return format.Date(v, format.DefaultDateLayout) },
		ExportValue: func(r table.Row) any {
			v, _ := table.Lookup(r, id)
			return format.Date(v, format.DefaultDateLayout)
		},
	}
}

// status renders a badge; the label is exported through the value prop.
func status(id, header string, labels map[string]string) table.Column {
	return table.Column{
		ID:     id,
		Header: header,
		Render: func(r table.Row, _ any) any {
			raw := format.Text(r[id])
			label, ok := labels[raw]
			if !ok {
				label = raw
			}
			return table.El("span", map[string]any{"class": "badge badge-" + raw, "value": label}, label)
		},
	}
}

// place joins city and state, e.g. "Recife / PE".
func place(id, header, cityPath, statePath string) table.Column {
	return table.Column{
		ID:     id,
		Header: header,
		Render: func(r table.Row, _ any) any {
			city, _ := table.Lookup(r, cityPath)
			state, _ := table.Lookup(r, statePath)
			if state == nil || state == "" {
				return table.El("span", nil, city)
			}
			return table.El("span", nil, city, "/", state)
		},
	}
}

// linked renders a templ link to a detail page.
func linked(id, header, path, hrefPattern string) table.Column {
	return table.Column{
		ID:     id,
		Header: header,
		Render: func(r table.Row, _ any) any {
			label, _ := table.Lookup(r, path)
			return link(fmt.Sprintf(hrefPattern, r.ID("")), format.Text(label))
		},
	}
}

func link(href, label string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<a href="%s" class="link">%s</a>`,
			templ.EscapeString(href), templ.EscapeString(label))
		return err
	})
}

// actions is the per-row edit/remove column. It is never exported.
func actions(base string) table.Column {
	return table.Column{
		ID:     "actions",
		Header: "",
		Size:   0.6,
		Render: func(r table.Row, _ any) any {
			id := format.Text(r.ID(""))
			return table.El("div", map[string]any{"class": "actions"},
				table.El("a", map[string]any{"href": base + "/" + id + "/editar"}, "Editar"),
				table.El("button", map[string]any{"data-remove": id}, "Remover"),
			)
		},
	}
}
