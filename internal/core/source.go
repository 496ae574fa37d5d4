package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/JonMunkholm/easyfin/internal/table"
)

// RowSource loads the full row collection of a table. Implementations must
// be safe for concurrent use.
type RowSource interface {
	Rows(ctx context.Context, info TableInfo) ([]table.Row, error)
}

// Source kinds accepted by configuration.
const (
	SourceMemory   = "memory"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceAPI      = "api"
)

// MemorySource serves rows held in process, keyed by table key.
type MemorySource struct {
	mu   sync.RWMutex
	rows map[string][]table.Row
}

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{rows: make(map[string][]table.Row)}
}

// Set replaces the rows of a table.
func (s *MemorySource) Set(key string, rows []table.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[key] = slices.Clone(rows)
}

// Rows returns a shallow copy of the stored rows. Unknown keys yield an
// empty collection.
func (s *MemorySource) Rows(_ context.Context, info TableInfo) ([]table.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.rows[info.Key]
	out := make([]table.Row, len(stored))
	for i, r := range stored {
		out[i] = maps.Clone(r)
	}
	return out, nil
}

// DecodeRows reads a JSON array of objects, or an object wrapping the array
// in "data". The input passes through a TextReader first. Numbers are kept
// as json.Number so large ids and amounts are not rounded.
func DecodeRows(r io.Reader) ([]table.Row, error) {
	data, err := io.ReadAll(NewTextReader(r))
	if err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("decode rows: empty document")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '{' {
		var envelope struct {
			Data []table.Row `json:"data"`
		}
		if err := dec.Decode(&envelope); err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
		if envelope.Data == nil {
			return nil, errors.New(`decode rows: object has no "data" array`)
		}
		return envelope.Data, nil
	}

	var rows []table.Row
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if rows == nil {
		rows = []table.Row{}
	}
	return rows, nil
}
