package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore keeps workflows in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]byte
	ttl   time.Duration
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte), ttl: ttl, now: time.Now}
}

// Load returns a copy of the stored workflow.
func (s *MemoryStore) Load(_ context.Context, key string) (*Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	var w Workflow
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	if expired(w.UpdatedAt, s.ttl, s.now()) {
		delete(s.items, key)
		return nil, ErrNotFound
	}
	return &w, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, w *Workflow) error {
	w.UpdatedAt = s.now()
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
