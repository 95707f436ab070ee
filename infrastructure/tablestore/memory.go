package tablestore

import (
	"context"
	"sync"
)

// MemoryStore é uma implementação em memória do TableStore, usada nos testes
// e em execuções locais sem banco configurado.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string][][]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string][][]any),
	}
}

func (s *MemoryStore) ReadAll(_ context.Context, tableID string) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyGrid(s.tables[tableID]), nil
}

func (s *MemoryStore) WriteRows(_ context.Context, tableID string, rows [][]any, startRow int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if startRow < 1 {
		startRow = 1
	}

	grid := s.tables[tableID]
	needed := startRow - 1 + len(rows)
	for len(grid) < needed {
		grid = append(grid, nil)
	}

	for i, row := range rows {
		grid[startRow-1+i] = append([]any(nil), row...)
	}

	s.tables[tableID] = grid
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, tableID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tables, tableID)
	return nil
}

func (s *MemoryStore) ReplaceAll(_ context.Context, tableID string, rows [][]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables[tableID] = copyGrid(rows)
	return nil
}

func copyGrid(grid [][]any) [][]any {
	out := make([][]any, len(grid))
	for i, row := range grid {
		out[i] = append([]any(nil), row...)
	}
	return out
}
