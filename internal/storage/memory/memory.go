package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// Store keeps ledger blobs in process memory. Contents are lost on exit.
type Store struct {
	mu      sync.Mutex
	entries map[string]string
	saves   int
}

var (
	_ storage.Store      = (*Store)(nil)
	_ storage.BatchSaver = (*Store)(nil)
)

func New() *Store {
	return &Store{entries: make(map[string]string)}
}

// NewFromDir seeds the store from <base>/expenses.json and <base>/incomes.json
// when those files exist. Missing or blank files are skipped.
func NewFromDir(base string) *Store {
	s := New()
	for _, c := range []core.Collection{core.Expenses, core.Incomes} {
		if v := readSeed(filepath.Join(base, c.String()+".json")); v != "" {
			s.entries[c.String()] = v
		}
	}
	return s
}

func (s *Store) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *Store) Save(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	s.saves++
	return nil
}

func (s *Store) SaveBatch(_ context.Context, entries []storage.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.Key] = e.Value
	}
	s.saves++
	return nil
}

// Saves counts completed write calls; a batch counts once.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func readSeed(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
