// Command tablexport writes Easyfin tables to .xlsx workbooks without the
// web server.
//
// Export one registered table (or several) from a data directory:
//
//	tablexport --table suppliers --table customers --data data --out exports
//
// Or export any JSON rows against a YAML column model:
//
//	tablexport --rows rows.json --columns columns.yaml --name relatorio
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	_ "github.com/JonMunkholm/easyfin/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/easyfin/internal/logging"
)

func main() {
	// A .env file may set LOG_LEVEL and LOG_FORMAT; existing vars win.
	_ = godotenv.Load()
	logging.Setup(envOr("LOG_LEVEL", "warn"), envOr("LOG_FORMAT", "text"))

	if err := newRootCmd().Execute(); err != nil {
		slog.Debug("export failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
