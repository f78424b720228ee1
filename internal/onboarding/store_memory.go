package onboarding

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// MemoryDraftStore is a process-local DraftStore, used in tests and
// single-node setups without redis.
type MemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID][]byte
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[uuid.UUID][]byte)}
}

func (s *MemoryDraftStore) Get(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	s.mu.RLock()
	raw, ok := s.drafts[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MemoryDraftStore) Put(ctx context.Context, userID uuid.UUID, d *Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts[userID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryDraftStore) Delete(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	delete(s.drafts, userID)
	s.mu.Unlock()
	return nil
}
