package table

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/easyfin/internal/format"
)

// ColumnSpec is the file form of a column, as written in YAML column models:
//
//	columns:
//	  - id: name
//	    header: Razão social
//	  - id: document
//	    header: CNPJ
//	    format: cpf_cnpj
//	  - id: city
//	    header: Cidade
//	    path: address.city
//	  - id: actions
//	    export: false
type ColumnSpec struct {
	ID     string  `yaml:"id"`
	Header string  `yaml:"header"`
	Path   string  `yaml:"path"`
	Format string  `yaml:"format"`
	Size   float64 `yaml:"size"`
	Export *bool   `yaml:"export"`
}

type columnFile struct {
	Columns []ColumnSpec `yaml:"columns"`
}

// Column converts the spec. Path defaults to the id and Header to the id.
func (s ColumnSpec) Column() (Column, error) {
	col := Column{
		ID:     s.ID,
		Header: s.Header,
		Path:   s.Path,
		Size:   s.Size,
	}
	if col.Path == "" {
		col.Path = s.ID
	}
	if col.Header == "" {
		col.Header = s.ID
	}
	if s.Export != nil && !*s.Export {
		col.SkipExport = true
	}
	if s.Format != "" {
		mask, ok := format.ByName(s.Format)
		if !ok {
			return Column{}, fmt.Errorf("column %q: unknown format %q", s.ID, s.Format)
		}
		col.Render = func(_ Row, v any) any { return mask(v) }
	}
	return col, nil
}

// LoadColumnSpecs decodes a YAML column model.
func LoadColumnSpecs(r io.Reader) ([]Column, error) {
	var file columnFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("column model is empty")
		}
		return nil, fmt.Errorf("decode column model: %w", err)
	}
	if len(file.Columns) == 0 {
		return nil, errors.New("column model has no columns")
	}

	cols := make([]Column, 0, len(file.Columns))
	for _, spec := range file.Columns {
		col, err := spec.Column()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if err := ValidateColumns(cols); err != nil {
		return nil, fmt.Errorf("invalid column model: %w", err)
	}
	return cols, nil
}
