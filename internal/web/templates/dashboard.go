package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/easyfin/internal/core"
)

// TableGroup is one menu section of the dashboard.
type TableGroup struct {
	Name   string
	Tables []core.TableInfo
}

// Dashboard lists the tables the session can open, grouped by menu section.
func Dashboard(groups []TableGroup) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &page{w: w}
		p.raw(`<h1>Tabelas</h1>`)
		if len(groups) == 0 {
			p.raw(`<p class="empty">Nenhuma tabela disponível para o seu perfil.</p>`)
		}
		for _, g := range groups {
			p.raw(`<section class="group"><h2>`)
			p.text(g.Name)
			p.raw(`</h2><ul class="cards">`)
			for _, t := range g.Tables {
				p.printf(`<li class="card"><a href="%s">`, templ.EscapeString(string(templ.URL("/table/"+t.Key))))
				p.text(t.Label)
				p.printf(`</a> <a class="export" href="%s">Exportar</a></li>`,
					templ.EscapeString(string(templ.URL("/api/export/"+t.Key))))
			}
			p.raw(`</ul></section>`)
		}
		return p.err
	})
	return Layout("Tabelas", body)
}
