package core

import (
	"context"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/easyfin/internal/table"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Role is an Easyfin user profile.
type Role string

const (
	RoleAdmin        Role = "admin"
	RolePilot        Role = "pilot"
	RoleLocalManager Role = "local_manager"
	RoleFinancial    Role = "financial"
)

// ParseRole returns the role named s.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RolePilot, RoleLocalManager, RoleFinancial:
		return r, true
	}
	return "", false
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key      string `json:"key"`                // Unique identifier: "suppliers"
	Group    string `json:"group"`              // Menu section: "Cadastros", "Financeiro"
	Label    string `json:"label"`              // Display name: "Fornecedores"
	Relation string `json:"-"`                  // Database relation for PostgresSource
	Endpoint string `json:"-"`                  // Path below the API base URL for APISource
	IDField  string `json:"idField,omitempty"`  // Row identifier, defaults to "id"
	Roles    []Role `json:"roles,omitempty"`    // Roles allowed to see the table; empty means everyone
	FileName string `json:"fileName,omitempty"` // Default export file name, without extension
}

// Allows reports whether role may see the table.
func (i TableInfo) Allows(role Role) bool {
	if len(i.Roles) == 0 || role == RoleAdmin {
		return true
	}
	return slices.Contains(i.Roles, role)
}

// TableDefinition contains everything needed to present and export a table.
type TableDefinition struct {
	Info    TableInfo
	Columns []table.Column

	// PageSize overrides the configured default page size.
	PageSize int
}

// ExportName is the file name used when the caller does not pick one.
func (d TableDefinition) ExportName() string {
	if d.Info.FileName != "" {
		return d.Info.FileName
	}
	return d.Info.Key
}

// ViewQuery carries the view-state changes requested along with a read.
// Zero values leave the corresponding state untouched.
type ViewQuery struct {
	Page      *int
	PageSize  int
	Sorting   []table.SortSpec
	ClearSort bool
	Search    *string
}

// TableView is a rendered page of a table.
type TableView struct {
	Info       TableInfo        `json:"table"`
	Projection table.Projection `json:"view"`
}
