// Package local implements the weight store against a local JSON file, with
// an in-memory mode for demo use and tests.
package local

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"weightlog/internal/domain"
)

// storageKey namespaces the entry collection inside the data file.
const storageKey = "health.weight.v1"

// saveDebounce coalesces bursts of mutations into a single physical write.
const saveDebounce = 80 * time.Millisecond

// Store is a mutex-serialized weight store. The in-memory collection is the
// source of truth between flushes; reads return copies so callers never
// observe partial mutations.
type Store struct {
	mu      sync.Mutex
	path    string
	delay   time.Duration
	entries []domain.WeightEntry
	timer   *time.Timer
}

var _ domain.Store = (*Store)(nil)

// New creates a Store persisted at path. An empty path selects memory-only
// operation. Existing data is loaded eagerly; legacy-shaped records are
// upgraded and corrupt records dropped.
func New(path string) (*Store, error) {
	s := &Store{path: path, delay: saveDebounce}
	if path != "" {
		if err := s.load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var doc map[string][]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("local store: unreadable data file %s, starting empty: %v", s.path, err)
		return nil
	}

	for _, rec := range doc[storageKey] {
		entry, ok := domain.DecodeStored(rec)
		if !ok {
			log.Printf("local store: dropping unrecognised record")
			continue
		}
		s.entries = append(s.entries, entry)
	}
	return nil
}

// List returns a copy of all entries, unordered.
func (s *Store) List(ctx context.Context) ([]domain.WeightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.WeightEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Create assigns an id, appends the entry and schedules a flush.
func (s *Store) Create(ctx context.Context, entry domain.WeightEntry) (domain.WeightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = uuid.NewString()
	s.entries = append(s.entries, entry)
	s.scheduleSave()
	return entry, nil
}

// Update applies a validated partial update to the entry with the given id.
func (s *Store) Update(ctx context.Context, id string, in domain.UpdateInput) (domain.WeightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		updated, err := domain.ApplyUpdate(s.entries[i], in)
		if err != nil {
			return domain.WeightEntry{}, err
		}
		s.entries[i] = updated
		s.scheduleSave()
		return updated, nil
	}
	return domain.WeightEntry{}, domain.ErrNotFound
}

// Delete removes the entry with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.scheduleSave()
			return nil
		}
	}
	return domain.ErrNotFound
}

// scheduleSave arms the debounce timer. Callers must hold mu.
func (s *Store) scheduleSave() {
	if s.path == "" {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if err := s.Flush(); err != nil {
			log.Printf("local store: flush: %v", err)
		}
	})
}

// Flush writes the collection to disk immediately, cancelling any pending
// debounced write. Safe to call with nothing pending.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	doc := map[string][]domain.WeightEntry{storageKey: s.entries}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Close flushes pending writes.
func (s *Store) Close() error {
	return s.Flush()
}
