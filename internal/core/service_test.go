package core

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/easyfin/internal/export"
	"github.com/JonMunkholm/easyfin/internal/table"
)

// countingSource wraps a MemorySource and counts loads.
type countingSource struct {
	*MemorySource
	calls atomic.Int32
	err   error
}

func (s *countingSource) Rows(ctx context.Context, info TableInfo) ([]table.Row, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.MemorySource.Rows(ctx, info)
}

func registerTestTables(t *testing.T) {
	t.Helper()
	Clear()
	t.Cleanup(Clear)

	Register(TableDefinition{
		Info: TableInfo{Key: "suppliers", Group: "Cadastros", Label: "Fornecedores", FileName: "fornecedores"},
		Columns: []table.Column{
			{ID: "name", Header: "Name", Path: "name"},
			{ID: "amount", Header: "Amount", Path: "amount"},
			{ID: "actions", Header: "", Render: func(table.Row, any) any { return "edit" }},
		},
	})
	Register(TableDefinition{
		Info: TableInfo{Key: "payroll", Group: "Pessoal", Label: "Folha", Roles: []Role{RoleFinancial}},
		Columns: []table.Column{
			{ID: "employee", Header: "Employee", Path: "employee"},
		},
	})
}

func newTestService(t *testing.T, cfg ServiceConfig) (*Service, *countingSource) {
	t.Helper()
	registerTestTables(t)

	mem := NewMemorySource()
	mem.Set("suppliers", []table.Row{
		{"id": 1, "name": "Acme", "amount": 100},
		{"id": 2, "name": "Zeta", "amount": 50},
	})
	mem.Set("payroll", []table.Row{{"id": 1, "employee": "Ana"}})

	src := &countingSource{MemorySource: mem}
	cfg.Source = src
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, src
}

func sessionCtx(id string, role Role) context.Context {
	return ContextWithSession(context.Background(), Session{ID: id, UserID: "u-" + id, Role: role})
}

func names(v *TableView) []string {
	out := make([]string, len(v.Projection.Rows))
	for i, r := range v.Projection.Rows {
		out[i] = r.Cells[0]
	}
	return out
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestNewService_RequiresSource(t *testing.T) {
	if _, err := NewService(ServiceConfig{}); err == nil {
		t.Error("NewService without source should fail")
	}
}

func TestService_ViewLoadsOncePerSession(t *testing.T) {
	svc, src := newTestService(t, ServiceConfig{})
	ctx := sessionCtx("s1", RolePilot)

	v, err := svc.View(ctx, "suppliers", ViewQuery{})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if diff := cmp.Diff([]string{"Acme", "Zeta"}, names(v)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	v, err = svc.View(ctx, "suppliers", ViewQuery{Sorting: []table.SortSpec{{ColumnID: "amount", Dir: table.Asc}}})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if diff := cmp.Diff([]string{"Zeta", "Acme"}, names(v)); diff != "" {
		t.Errorf("sorted rows mismatch (-want +got):\n%s", diff)
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("source called %d times, want 1", got)
	}

	// A second session gets its own view with its own state.
	other, err := svc.View(sessionCtx("s2", RolePilot), "suppliers", ViewQuery{})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if diff := cmp.Diff([]string{"Acme", "Zeta"}, names(other)); diff != "" {
		t.Errorf("second session mismatch (-want +got):\n%s", diff)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("source called %d times, want 2", got)
	}
}

func TestService_ViewQuery(t *testing.T) {
	svc, _ := newTestService(t, ServiceConfig{Table: table.Options{PageSize: 1}})
	ctx := sessionCtx("s1", RoleAdmin)

	v, err := svc.View(ctx, "suppliers", ViewQuery{Page: intPtr(1)})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Zeta"}, names(v)); diff != "" {
		t.Errorf("page 1 mismatch (-want +got):\n%s", diff)
	}

	v, _ = svc.View(ctx, "suppliers", ViewQuery{Search: strPtr("acme")})
	if v.Projection.PageIndex != 0 || v.Projection.FilteredCount != 1 {
		t.Errorf("search: page %d filtered %d", v.Projection.PageIndex, v.Projection.FilteredCount)
	}

	v, _ = svc.View(ctx, "suppliers", ViewQuery{Search: strPtr(""), PageSize: 10})
	if diff := cmp.Diff([]string{"Acme", "Zeta"}, names(v)); diff != "" {
		t.Errorf("cleared search mismatch (-want +got):\n%s", diff)
	}

	svc.View(ctx, "suppliers", ViewQuery{Sorting: []table.SortSpec{{ColumnID: "name", Dir: table.Desc}}})
	v, _ = svc.View(ctx, "suppliers", ViewQuery{ClearSort: true})
	if len(v.Projection.Sorting) != 0 {
		t.Errorf("ClearSort left %v", v.Projection.Sorting)
	}
}

func TestService_Reorder(t *testing.T) {
	svc, _ := newTestService(t, ServiceConfig{})
	ctx := sessionCtx("s1", RolePilot)

	v, err := svc.Reorder(ctx, "suppliers", "name", "actions")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, c := range v.Projection.Columns {
		ids = append(ids, c.ID)
	}
	if diff := cmp.Diff([]string{"actions", "amount", "name"}, ids); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}

	v, _ = svc.Reorder(ctx, "suppliers", "name", "ghost")
	if v.Projection.Columns[0].ID != "actions" {
		t.Error("unknown target changed the order")
	}
}

func TestService_RefreshKeepsViewState(t *testing.T) {
	svc, src := newTestService(t, ServiceConfig{})
	ctx := sessionCtx("s1", RolePilot)

	svc.View(ctx, "suppliers", ViewQuery{Sorting: []table.SortSpec{{ColumnID: "amount", Dir: table.Desc}}})
	src.Set("suppliers", []table.Row{
		{"id": 1, "name": "Acme", "amount": 100},
		{"id": 3, "name": "Beta", "amount": 500},
	})

	v, err := svc.Refresh(ctx, "suppliers")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Beta", "Acme"}, names(v)); diff != "" {
		t.Errorf("refreshed rows mismatch (-want +got):\n%s", diff)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("source called %d times, want 2", got)
	}
}

func TestService_AccessErrors(t *testing.T) {
	svc, _ := newTestService(t, ServiceConfig{})

	if _, err := svc.View(sessionCtx("s1", RolePilot), "ledger", ViewQuery{}); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("unknown table err = %v", err)
	}
	if _, err := svc.View(sessionCtx("s1", RolePilot), "payroll", ViewQuery{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("forbidden err = %v", err)
	}
	if _, err := svc.View(context.Background(), "suppliers", ViewQuery{}); !errors.Is(err, ErrNoSession) {
		t.Errorf("no session err = %v", err)
	}
	if _, err := svc.View(sessionCtx("s1", RoleFinancial), "payroll", ViewQuery{}); err != nil {
		t.Errorf("financial payroll err = %v", err)
	}
}

func TestService_SourceFailure(t *testing.T) {
	svc, src := newTestService(t, ServiceConfig{})
	cause := errors.New("dial tcp: connection refused")
	src.err = cause

	_, err := svc.View(sessionCtx("s1", RolePilot), "suppliers", ViewQuery{})
	if !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("err = %v, want source unavailable wrapping the cause", err)
	}
	if got := MapError(err).Code; got != "SRC001" {
		t.Errorf("code = %s, want SRC001", got)
	}

	// The failed load must not leave a mounted-but-empty view behind.
	src.err = nil
	v, err := svc.View(sessionCtx("s1", RolePilot), "suppliers", ViewQuery{})
	if err != nil || len(v.Projection.Rows) != 2 {
		t.Errorf("retry = %v, %v", v, err)
	}
}

func TestService_ListTables(t *testing.T) {
	svc, _ := newTestService(t, ServiceConfig{})

	keys := func(infos []TableInfo) []string {
		var out []string
		for _, i := range infos {
			out = append(out, i.Key)
		}
		return out
	}

	if diff := cmp.Diff([]string{"suppliers"}, keys(svc.ListTables(sessionCtx("s", RolePilot)))); diff != "" {
		t.Errorf("pilot tables (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"suppliers", "payroll"}, keys(svc.ListTables(sessionCtx("s", RoleAdmin)))); diff != "" {
		t.Errorf("admin tables (-want +got):\n%s", diff)
	}

	groups := svc.ListTablesByGroup(sessionCtx("s", RoleFinancial))
	if len(groups["Cadastros"]) != 1 || len(groups["Pessoal"]) != 1 {
		t.Errorf("groups = %v", groups)
	}
}

func TestService_ExportIgnoresViewState(t *testing.T) {
	svc, _ := newTestService(t, ServiceConfig{})
	ctx := sessionCtx("s1", RolePilot)

	svc.View(ctx, "suppliers", ViewQuery{
		Sorting:  []table.SortSpec{{ColumnID: "amount", Dir: table.Asc}},
		Search:   strPtr("zeta"),
		PageSize: 1,
	})
	svc.Reorder(ctx, "suppliers", "name", "amount")

	var buf bytes.Buffer
	name, err := svc.Export(ctx, "suppliers", "", &buf)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "fornecedores.xlsx" {
		t.Errorf("name = %q", name)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := f.GetRows(export.DefaultSheetName)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"Name", "Amount"}, {"Acme", "100"}, {"Zeta", "50"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sheet mismatch (-want +got):\n%s", diff)
	}

	if status := svc.ExportLimiterStatus(); status.Active != 0 {
		t.Errorf("limiter still holds %d slots", status.Active)
	}
}

func TestService_ExportWithoutViewLoadsSource(t *testing.T) {
	svc, src := newTestService(t, ServiceConfig{})

	var buf bytes.Buffer
	name, err := svc.Export(context.Background(), "suppliers", "relatorio", &buf)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "relatorio.xlsx" || buf.Len() == 0 {
		t.Errorf("name %q, %d bytes", name, buf.Len())
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("source called %d times, want 1", got)
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestService_ExportFailures(t *testing.T) {
	svc, _ := newTestService(t, ServiceConfig{MaxConcurrentExports: 1, MaxExportWait: 20 * time.Millisecond})
	ctx := sessionCtx("s1", RolePilot)

	_, err := svc.Export(ctx, "suppliers", "", brokenWriter{})
	var exportErr *export.Error
	if !errors.As(err, &exportErr) {
		t.Fatalf("err = %v, want *export.Error", err)
	}
	if got := MapError(err).Code; got != "EXP001" {
		t.Errorf("code = %s, want EXP001", got)
	}

	if !svc.limiter.TryAcquire() {
		t.Fatal("limiter slot not released after failure")
	}
	defer svc.limiter.Release()

	if _, err := svc.Export(ctx, "suppliers", "", &bytes.Buffer{}); !errors.Is(err, ErrTooManyExports) {
		t.Errorf("err = %v, want ErrTooManyExports", err)
	}

	if _, err := svc.Export(ctx, "payroll", "", &bytes.Buffer{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestService_WaitForExports(t *testing.T) {
	svc, _ := newTestService(t, ServiceConfig{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := svc.WaitForExports(ctx); err != nil {
		t.Errorf("WaitForExports = %v", err)
	}
}

func TestService_CloseDropsSessionViews(t *testing.T) {
	svc, _ := newTestService(t, ServiceConfig{})
	ctx := sessionCtx("s1", RoleAdmin)

	svc.View(ctx, "suppliers", ViewQuery{})
	svc.View(ctx, "payroll", ViewQuery{})
	svc.View(sessionCtx("s2", RoleAdmin), "suppliers", ViewQuery{})

	if got := svc.Close(ctx); got != 2 {
		t.Errorf("Close = %d, want 2", got)
	}
	if got := svc.Views().Len(); got != 1 {
		t.Errorf("views left = %d, want 1", got)
	}
}
