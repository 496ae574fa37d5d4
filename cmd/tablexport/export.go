package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/easyfin/internal/core"
	"github.com/JonMunkholm/easyfin/internal/export"
	"github.com/JonMunkholm/easyfin/internal/format"
	"github.com/JonMunkholm/easyfin/internal/table"
)

// options holds the flag values of one invocation.
type options struct {
	rowsPath    string
	columnsPath string
	tables      []string
	dataDir     string
	name        string
	outDir      string
	sheet       string
	dateLayout  string
	parallel    int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "tablexport",
		Short: "Export Easyfin tables to .xlsx",
		Long: `Writes the complete row collection of a table to a styled .xlsx workbook.

Either name registered tables with --table (rows come from <data>/<key>.json)
or pass --rows with a YAML column model in --columns.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.rowsPath, "rows", "", "JSON rows file (- for stdin)")
	f.StringVar(&opts.columnsPath, "columns", "", "YAML column model for --rows")
	f.StringArrayVarP(&opts.tables, "table", "t", nil, "registered table key (repeatable)")
	f.StringVar(&opts.dataDir, "data", "data", "directory holding <table>.json files")
	f.StringVarP(&opts.name, "name", "n", "", "workbook name without extension")
	f.StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	f.StringVar(&opts.sheet, "sheet", export.DefaultSheetName, "worksheet name")
	f.StringVar(&opts.dateLayout, "date-layout", format.DefaultDateLayout, "layout for date cells")
	f.IntVar(&opts.parallel, "parallel", 4, "tables exported at once")

	cmd.MarkFlagsMutuallyExclusive("table", "rows")
	cmd.MarkFlagsRequiredTogether("rows", "columns")

	cmd.AddCommand(newListCmd())
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, def := range core.All() {
				fmt.Fprintf(w, "%-20s %-12s %s\n", def.Info.Key, def.Info.Group, def.Info.Label)
			}
			return nil
		},
	}
}

func run(ctx context.Context, cmd *cobra.Command, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	exp := export.New(export.Options{SheetName: opts.sheet, DateLayout: opts.dateLayout})

	var paths []string
	var err error
	switch {
	case len(opts.tables) > 0:
		paths, err = exportTables(ctx, exp, opts)
	case opts.rowsPath != "":
		var path string
		path, err = exportRows(cmd.InOrStdin(), exp, opts)
		paths = []string{path}
	default:
		return errors.New("nothing to export: use --table or --rows with --columns")
	}
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

// exportRows exports a rows file against a YAML column model.
func exportRows(stdin io.Reader, exp *export.Exporter, opts *options) (string, error) {
	columns, err := readColumns(opts.columnsPath)
	if err != nil {
		return "", err
	}

	in := stdin
	if opts.rowsPath != "-" {
		f, err := os.Open(opts.rowsPath)
		if err != nil {
			return "", fmt.Errorf("open rows: %w", err)
		}
		defer f.Close()
		in = f
	}
	rows, err := core.DecodeRows(in)
	if err != nil {
		return "", fmt.Errorf("%s: %w", opts.rowsPath, err)
	}

	name := opts.name
	if name == "" && opts.rowsPath != "-" {
		name = strings.TrimSuffix(filepath.Base(opts.rowsPath), filepath.Ext(opts.rowsPath))
	}

	path, err := exp.SaveFile(opts.outDir, export.FileName(name), rows, columns)
	if err != nil {
		return "", err
	}
	slog.Info("export complete", "file", path, "rows", len(rows), "columns", len(columns))
	return path, nil
}

func readColumns(path string) ([]table.Column, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open columns: %w", err)
	}
	defer f.Close()

	columns, err := table.LoadColumnSpecs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return columns, nil
}

// exportTables exports registered tables concurrently. Paths come back in
// flag order; the first failure cancels the rest.
func exportTables(ctx context.Context, exp *export.Exporter, opts *options) ([]string, error) {
	if opts.name != "" && len(opts.tables) > 1 {
		return nil, errors.New("--name applies to a single table")
	}

	defs := make([]core.TableDefinition, len(opts.tables))
	for i, key := range opts.tables {
		def, ok := core.Get(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrUnknownTable, key)
		}
		defs[i] = def
	}

	source := core.NewFileSource(opts.dataDir)
	paths := make([]string, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.parallel, 1))
	for i, def := range defs {
		g.Go(func() error {
			rows, err := source.Rows(gctx, def.Info)
			if err != nil {
				return fmt.Errorf("%s: %w", def.Info.Key, err)
			}

			name := opts.name
			if name == "" {
				name = def.ExportName()
			}
			path, err := exp.SaveFile(opts.outDir, export.FileName(name), rows, def.Columns)
			if err != nil {
				return fmt.Errorf("%s: %w", def.Info.Key, err)
			}
			slog.Info("export complete", "table", def.Info.Key, "file", path, "rows", len(rows))
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
