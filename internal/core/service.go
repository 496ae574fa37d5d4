package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/easyfin/internal/export"
	"github.com/JonMunkholm/easyfin/internal/table"
)

// DefaultLoadTimeout bounds a single RowSource call.
var DefaultLoadTimeout = 30 * time.Second

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Source RowSource

	// Table holds the defaults for new views (page size, date layout, locale).
	Table table.Options

	Export export.Options

	ViewTTL              time.Duration
	MaxConcurrentExports int
	MaxExportWait        time.Duration
	LoadTimeout          time.Duration
}

// Service provides the core operations behind the Easyfin tables: listing
// tables, serving per-session views and exporting spreadsheets.
type Service struct {
	source      RowSource
	tableOpts   table.Options
	loadTimeout time.Duration

	views    *ViewStore
	exporter *export.Exporter
	limiter  *ExportLimiter
}

// NewService creates a new Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Source == nil {
		return nil, errors.New("service: row source is required")
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.Export.DateLayout == "" {
		cfg.Export.DateLayout = cfg.Table.DateLayout
	}

	return &Service{
		source:      cfg.Source,
		tableOpts:   cfg.Table,
		loadTimeout: cfg.LoadTimeout,
		views:       NewViewStore(cfg.ViewTTL),
		exporter:    export.New(cfg.Export),
		limiter:     NewExportLimiter(cfg.MaxConcurrentExports, cfg.MaxExportWait),
	}, nil
}

// Views returns the view store, for running its sweeper.
func (s *Service) Views() *ViewStore { return s.views }

// ListTables returns the tables the session's role may see.
func (s *Service) ListTables(ctx context.Context) []TableInfo {
	role := sessionRole(ctx)
	var infos []TableInfo
	for _, def := range All() {
		if def.Info.Allows(role) {
			infos = append(infos, def.Info)
		}
	}
	return infos
}

// ListTablesByGroup returns visible tables organized by group.
func (s *Service) ListTablesByGroup(ctx context.Context) map[string][]TableInfo {
	result := make(map[string][]TableInfo)
	for _, info := range s.ListTables(ctx) {
		result[info.Group] = append(result[info.Group], info)
	}
	return result
}

// Table returns a table definition the session may access.
func (s *Service) Table(ctx context.Context, key string) (TableDefinition, error) {
	def, ok := Get(key)
	if !ok {
		return TableDefinition{}, fmt.Errorf("%w: %s", ErrUnknownTable, key)
	}
	if !def.Info.Allows(sessionRole(ctx)) {
		return TableDefinition{}, fmt.Errorf("%s: %w", key, ErrForbidden)
	}
	return def, nil
}

// View applies q to the session's view of the table and returns the page to
// render. The first call for a (session, table) loads its rows.
func (s *Service) View(ctx context.Context, key string, q ViewQuery) (*TableView, error) {
	return s.withView(ctx, key, func(c *table.Controller) {
		applyQuery(c, q)
	})
}

// Reorder swaps two columns of the session's view. Unknown ids are ignored.
func (s *Service) Reorder(ctx context.Context, key, sourceID, targetID string) (*TableView, error) {
	return s.withView(ctx, key, func(c *table.Controller) {
		c.ReorderColumns(sourceID, targetID)
	})
}

// Refresh reloads the table's rows from the source. Sorting, filtering and
// column order are kept; the page returns to the first.
func (s *Service) Refresh(ctx context.Context, key string) (*TableView, error) {
	def, v, err := s.mountView(ctx, key, true)
	if err != nil {
		return nil, err
	}
	defer v.mu.Unlock()

	return &TableView{Info: def.Info, Projection: v.ctrl.Projection()}, nil
}

// Close unmounts every view of the session in ctx.
func (s *Service) Close(ctx context.Context) int {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return 0
	}
	return s.views.Drop(sess.ID)
}

func (s *Service) withView(ctx context.Context, key string, fn func(*table.Controller)) (*TableView, error) {
	def, v, err := s.mountView(ctx, key, false)
	if err != nil {
		return nil, err
	}
	defer v.mu.Unlock()

	fn(v.ctrl)
	return &TableView{Info: def.Info, Projection: v.ctrl.Projection()}, nil
}

// mountView returns the session's locked, loaded view of key. With reload
// the rows are fetched again even if the view already has them.
func (s *Service) mountView(ctx context.Context, key string, reload bool) (TableDefinition, *view, error) {
	def, err := s.Table(ctx, key)
	if err != nil {
		return TableDefinition{}, nil, err
	}
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return TableDefinition{}, nil, ErrNoSession
	}

	v := s.views.acquire(sess.ID, key, func() *table.Controller {
		return table.NewController(def.Columns, s.controllerOptions(def))
	})

	if !v.loaded || reload {
		rows, err := s.load(ctx, def)
		if err != nil {
			v.mu.Unlock()
			return TableDefinition{}, nil, err
		}
		v.ctrl.SetRows(rows)
		v.loaded = true
	}
	return def, v, nil
}

func (s *Service) controllerOptions(def TableDefinition) table.Options {
	opts := s.tableOpts
	opts.IDField = def.Info.IDField
	if def.PageSize > 0 {
		opts.PageSize = def.PageSize
	}
	return opts
}

// applyQuery applies filter and sort before page size and page, since the
// former reset the page index.
func applyQuery(c *table.Controller, q ViewQuery) {
	if q.Search != nil {
		c.SetGlobalFilter(*q.Search)
	}
	if q.ClearSort {
		c.ClearSort()
	}
	if len(q.Sorting) > 0 {
		c.SetSorting(q.Sorting)
	}
	if q.PageSize > 0 {
		c.SetPageSize(q.PageSize)
	}
	if q.Page != nil {
		c.SetPage(*q.Page)
	}
}

func (s *Service) load(ctx context.Context, def TableDefinition) ([]table.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	start := time.Now()
	rows, err := s.source.Rows(ctx, def.Info)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, def.Info.Key, err)
	}
	slog.DebugContext(ctx, "rows loaded",
		"table", def.Info.Key,
		"rows", len(rows),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rows, nil
}

// Export writes the table's complete row collection as an .xlsx workbook to
// w and returns the file name it was written under. The rows are the
// session's mounted collection when there is one, otherwise they are loaded
// from the source. On-screen sorting, filtering, pagination and column order
// never affect the file.
//
// The workbook is encoded fully before anything reaches w, so on error w
// has received nothing. Failures are a single *export.Error.
func (s *Service) Export(ctx context.Context, key, fileName string, w io.Writer) (string, error) {
	def, err := s.Table(ctx, key)
	if err != nil {
		return "", err
	}
	if fileName == "" {
		fileName = def.ExportName()
	}
	name := export.FileName(fileName)

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	defer s.limiter.Release()

	rows, err := s.exportRows(ctx, def)
	if err != nil {
		return "", err
	}

	start := time.Now()
	slog.InfoContext(ctx, "export started",
		"table", key,
		"file", name,
		"rows", len(rows),
		"session", sessionID(ctx),
		"ip", GetIPAddressFromContext(ctx),
		"user_agent", GetUserAgentFromContext(ctx),
	)

	n, err := s.exporter.Write(w, name, rows, def.Columns)
	if err != nil {
		slog.ErrorContext(ctx, "export failed",
			"table", key,
			"file", name,
			"error", err,
		)
		return "", err
	}

	slog.InfoContext(ctx, "export finished",
		"table", key,
		"file", name,
		"bytes", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return name, nil
}

func (s *Service) exportRows(ctx context.Context, def TableDefinition) ([]table.Row, error) {
	if sess, ok := SessionFromContext(ctx); ok {
		if rows, ok := s.views.rows(sess.ID, def.Info.Key); ok {
			return rows, nil
		}
	}
	return s.load(ctx, def)
}

// ExportLimiterStatus reports export slot usage.
func (s *Service) ExportLimiterStatus() ExportLimiterStatus {
	return s.limiter.Status()
}

// WaitForExports blocks until in-flight exports finish or ctx ends.
func (s *Service) WaitForExports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func sessionRole(ctx context.Context) Role {
	sess, _ := SessionFromContext(ctx)
	return sess.Role
}

func sessionID(ctx context.Context) string {
	sess, _ := SessionFromContext(ctx)
	return sess.ID
}
