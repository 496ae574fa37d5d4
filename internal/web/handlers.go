package web

import (
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/easyfin/internal/core"
	"github.com/JonMunkholm/easyfin/internal/export"
	"github.com/JonMunkholm/easyfin/internal/logging"
	"github.com/JonMunkholm/easyfin/internal/web/templates"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errMissingReorderIDs = errors.New("invalid parameter: source and target are required")

// handleDashboard renders the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	visible := s.service.ListTablesByGroup(ctx)
	var groups []templates.TableGroup
	for _, name := range core.Groups() {
		if tables := visible[name]; len(tables) > 0 {
			groups = append(groups, templates.TableGroup{Name: name, Tables: tables})
		}
	}

	if err := templates.Dashboard(groups).Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render dashboard", "error", err)
	}
}

// handleTableView renders a table page, or just the table for HTMX.
func (s *Server) handleTableView(w http.ResponseWriter, r *http.Request) {
	tableKey := chi.URLParam(r, "tableKey")

	v, err := s.service.View(r.Context(), tableKey, parseViewQuery(r))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.renderTable(w, r, v)
}

// handleListTables returns the visible tables organized by group.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.ListTablesByGroup(r.Context()))
}

// handleTableData applies the query to the session's view and returns its
// projection as JSON.
func (s *Server) handleTableData(w http.ResponseWriter, r *http.Request) {
	tableKey := chi.URLParam(r, "tableKey")

	v, err := s.service.View(r.Context(), tableKey, parseViewQuery(r))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, v)
}

// handleReorder swaps two columns of the session's view.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	tableKey := chi.URLParam(r, "tableKey")
	source, target := r.FormValue("source"), r.FormValue("target")
	if source == "" || target == "" {
		s.respondError(w, r, errMissingReorderIDs, http.StatusBadRequest)
		return
	}

	v, err := s.service.Reorder(r.Context(), tableKey, source, target)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.respondView(w, r, v)
}

// handleRefresh reloads the table rows from the source.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	tableKey := chi.URLParam(r, "tableKey")

	v, err := s.service.Refresh(r.Context(), tableKey)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.respondView(w, r, v)
}

// handleCloseViews unmounts every view of the session.
func (s *Server) handleCloseViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{"closed": s.service.Close(r.Context())})
}

// handleExport streams the table's complete rows as an .xlsx download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	tableKey := chi.URLParam(r, "tableKey")

	def, err := s.service.Table(ctx, tableKey)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	name := exportName(r.URL.Query().Get("name"))
	if name == "" {
		name = def.ExportName()
	}
	fileName := export.FileName(name)

	aw := &attachmentWriter{w: w, fileName: fileName}
	if _, err := s.service.Export(ctx, tableKey, fileName, aw); err != nil {
		if aw.started {
			// The body is already on its way; nothing sensible can follow.
			logging.FromContext(ctx).Error("export interrupted", "table", tableKey, "error", err)
			return
		}
		s.respondError(w, r, err, statusFor(err))
	}
}

// handleExportStatus reports export slot usage.
func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.ExportLimiterStatus())
}

// renderTable writes the full page or, for HTMX, the table fragment.
func (s *Server) renderTable(w http.ResponseWriter, r *http.Request, v *core.TableView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	c := templates.TableView(v)
	if isHTMX(r) {
		c = templates.TablePartial(v)
	}
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render table", "table", v.Info.Key, "error", err)
	}
}

// respondView answers a view mutation: the fragment for HTMX, a redirect
// back to the page for plain forms, JSON otherwise.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, v *core.TableView) {
	switch {
	case isHTMX(r):
		s.renderTable(w, r, v)
	case wantsHTML(r):
		http.Redirect(w, r, "/table/"+v.Info.Key, http.StatusSeeOther)
	default:
		writeJSON(w, v)
	}
}

// attachmentWriter sets the download headers right before the first byte,
// so a failed export can still answer with an error response.
type attachmentWriter struct {
	w        http.ResponseWriter
	fileName string
	started  bool
}

func (a *attachmentWriter) Write(p []byte) (int, error) {
	if !a.started {
		a.started = true
		h := a.w.Header()
		h.Set("Content-Type", xlsxContentType)
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.fileName}))
		h.Set("Cache-Control", "no-store")
	}
	return a.w.Write(p)
}
