package simulation

import (
	"sync"
	"time"
)

// SessionStore persists raw override records per session key. Writes are
// best-effort: callers never fail on a persistence error.
type SessionStore interface {
	Load(key string) ([]byte, bool)
	Save(key string, data []byte)
	Delete(key string)
}

type memEntry struct {
	data    []byte
	expires time.Time
}

// memSessionStore is a tab/session-scoped in-memory store. Records fall
// out after ttl, matching session-storage retention.
type memSessionStore struct {
	mutex   sync.RWMutex
	table   map[string]memEntry
	ttl     time.Duration
	nowFunc func() time.Time // mockable
}

var _ SessionStore = (*memSessionStore)(nil)

func NewMemSessionStore(ttl time.Duration) *memSessionStore {
	return &memSessionStore{
		table:   make(map[string]memEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

func (s *memSessionStore) Load(key string) ([]byte, bool) {
	s.mutex.RLock()
	entry, ok := s.table[key]
	s.mutex.RUnlock()

	if !ok {
		return nil, false
	}
	if s.nowFunc().After(entry.expires) {
		s.Delete(key)
		return nil, false
	}
	return entry.data, true
}

func (s *memSessionStore) Save(key string, data []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.table[key] = memEntry{data: data, expires: s.nowFunc().Add(s.ttl)}
}

func (s *memSessionStore) Delete(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, key)
}
