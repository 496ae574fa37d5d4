package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/easyfin/internal/format"
	"github.com/JonMunkholm/easyfin/internal/table"
)

const (
	// DefaultSheetName is the worksheet every new workbook starts with.
	DefaultSheetName = "Sheet1"

	// Extension is appended to every export file name.
	Extension = ".xlsx"

	HeaderRowHeight = 25.0
	DataRowHeight   = 22.0

	headerFill  = "D9D9D9"
	borderColor = "000000"
)

// Options configures an Exporter.
type Options struct {
	SheetName  string
	DateLayout string
}

func (o Options) withDefaults() Options {
	if o.SheetName == "" {
		o.SheetName = DefaultSheetName
	}
	if o.DateLayout == "" {
		o.DateLayout = format.DefaultDateLayout
	}
	return o
}

// Exporter turns a row collection and its column model into an .xlsx
// workbook. An Exporter holds no state between calls and may be shared.
type Exporter struct {
	opts Options
}

// New returns an Exporter.
func New(opts Options) *Exporter {
	return &Exporter{opts: opts.withDefaults()}
}

// SheetName returns the worksheet name used for exports.
func (e *Exporter) SheetName() string { return e.opts.SheetName }

// FileName returns name with the workbook extension. An empty name becomes
// "export".
func FileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "export"
	}
	if strings.HasSuffix(strings.ToLower(name), Extension) {
		return name
	}
	return name + Extension
}

// Workbook builds the styled workbook in memory. The caller must Close it.
func (e *Exporter) Workbook(rows []table.Row, columns []table.Column) (*excelize.File, error) {
	s := Build(rows, columns, e.opts.DateLayout)
	s.Name = e.opts.SheetName

	f := excelize.NewFile()
	if err := e.fill(f, s); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func (e *Exporter) fill(f *excelize.File, s *Sheet) error {
	if s.Name != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, s.Name); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("cell style: %w", err)
	}

	sw, err := f.NewStreamWriter(s.Name)
	if err != nil {
		return fmt.Errorf("new stream writer: %w", err)
	}

	// Column widths must be set before the first row is streamed.
	for i, w := range s.Widths {
		if err := sw.SetColWidth(i+1, i+1, w); err != nil {
			return fmt.Errorf("column %d width: %w", i+1, err)
		}
	}

	header := make([]any, len(s.Headers))
	for i, h := range s.Headers {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{Height: HeaderRowHeight}); err != nil {
		return fmt.Errorf("header row: %w", err)
	}

	for i, row := range s.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = excelize.Cell{StyleID: cellStyle, Value: v}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells, excelize.RowOpts{Height: DataRowHeight}); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "right", "bottom"}
	out := make([]excelize.Border, len(sides))
	for i, side := range sides {
		out[i] = excelize.Border{Type: side, Color: borderColor, Style: 1}
	}
	return out
}

// Write encodes the workbook to w. The workbook is fully encoded in memory
// before the first byte is written, so a failure never leaves a truncated
// spreadsheet behind.
func (e *Exporter) Write(w io.Writer, fileName string, rows []table.Row, columns []table.Column) (int64, error) {
	name := FileName(fileName)

	buf, err := e.encode(rows, columns)
	if err != nil {
		return 0, &Error{Op: "build", FileName: name, Err: err}
	}
	n, err := buf.WriteTo(w)
	if err != nil {
		return n, &Error{Op: "write", FileName: name, Err: err}
	}
	return n, nil
}

func (e *Exporter) encode(rows []table.Row, columns []table.Column) (*bytes.Buffer, error) {
	f, err := e.Workbook(rows, columns)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// SaveFile writes <dir>/<fileName>.xlsx and returns its path. The workbook
// goes to a temporary file in dir first and is renamed into place only once
// complete.
func (e *Exporter) SaveFile(dir, fileName string, rows []table.Row, columns []table.Column) (string, error) {
	name := FileName(fileName)
	if filepath.Base(name) != name {
		return "", &Error{Op: "save", FileName: name, Err: errors.New("file name must not contain a path")}
	}
	path := filepath.Join(dir, name)

	buf, err := e.encode(rows, columns)
	if err != nil {
		return "", &Error{Op: "build", FileName: name, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".export-*.xlsx")
	if err != nil {
		return "", &Error{Op: "save", FileName: name, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := buf.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", &Error{Op: "save", FileName: name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", &Error{Op: "save", FileName: name, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", &Error{Op: "save", FileName: name, Err: err}
	}
	return path, nil
}
