package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/easyfin/internal/table"
)

// FileSource reads <dir>/<key>.json for each table. Files are re-read on
// every call so edits show up on the next refresh.
type FileSource struct {
	dir string
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Rows loads the table's JSON file. A missing file is an empty table.
func (s *FileSource) Rows(ctx context.Context, info TableInfo) ([]table.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, filepath.Base(info.Key)+".json")
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []table.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := DecodeRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
