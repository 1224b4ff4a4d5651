package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/vultisig/feedback-portal/internal/types"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStorage is a process local SessionStore. Forms are stored encoded so
// callers never share a FormState with the store.
type MemoryStorage struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStorage) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryStorage) get(key string) ([]byte, bool) {
	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if entry.expired(m.now()) {
		delete(m.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (m *MemoryStorage) LoadForm(ctx context.Context, sessionID string) (*types.FormState, error) {
	m.mu.Lock()
	value, ok := m.get(formKey(sessionID))
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var form types.FormState
	if err := json.Unmarshal(value, &form); err != nil {
		return nil, fmt.Errorf("fail to decode form state: %w", err)
	}
	return &form, nil
}

func (m *MemoryStorage) SaveForm(ctx context.Context, sessionID string, form *types.FormState) error {
	value, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("fail to encode form state: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[formKey(sessionID)] = memoryEntry{value: value, expiresAt: m.expiry(m.ttl)}
	return nil
}

func (m *MemoryStorage) AcquireSubmit(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := lockKey(sessionID)
	if _, held := m.get(key); held {
		return false, nil
	}
	m.entries[key] = memoryEntry{value: []byte("1"), expiresAt: m.expiry(ttl)}
	return true, nil
}

func (m *MemoryStorage) ReleaseSubmit(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, lockKey(sessionID))
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
