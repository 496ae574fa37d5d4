// Package core provides the business logic behind the Easyfin tables.
//
// This package ties the table engine ([table]) and the spreadsheet exporter
// ([export]) to a set of registered table definitions, a row source and the
// per-session view state. It can be used by web handlers, CLI tools, or tests
// without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Table Definitions: Registered via the registry, each table has its
//     column model, menu group, role restrictions and export file name.
//   - Row Sources: A [RowSource] supplies the full row collection of a table
//     from memory, JSON files, PostgreSQL or the Easyfin HTTP API.
//   - Views: The [ViewStore] keeps one controller per session and table, so
//     sorting, filtering, paging and column order survive between requests.
//   - Service: The main entry point for all operations (list, view, reorder,
//     refresh, export).
//
// # Table Registry
//
// Tables are registered at init time using [Register]. Each [TableDefinition]
// carries the column model the controller and the exporter share:
//
//	core.Register(TableDefinition{
//	    Info: TableInfo{Key: "suppliers", Group: "Cadastros", Label: "Fornecedores"},
//	    Columns: []table.Column{
//	        {ID: "name", Header: "Razão social", Path: "name"},
//	        {ID: "city", Header: "Cidade", Path: "address.city"},
//	    },
//	})
//
// # Export
//
// [Service.Export] always writes the complete row collection in column
// declaration order. Whatever the session did to its view (sort, search,
// page, reorder) never reaches the file. Concurrent exports are bounded by
// an [ExportLimiter].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - TBL001-TBL002: Table errors (unknown table, bad column model)
//   - SRC001-SRC003: Row source errors (unavailable, connection, payload)
//   - EXP001-EXP002: Export errors (workbook failure, too many exports)
//   - AUTH001-AUTH002: Access errors (role, session)
//   - REQ001-REQ003: Request errors (cancelled, timeout, bad parameter)
//
// # Thread Safety
//
// The [Service] is safe for concurrent use. A single view is locked while a
// request mutates or reads it; the registry is read-only after init.
package core
