package store

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// MemStore is an in-memory Store. It backs the chat REPL (where persistence
// across runs is unwanted) and the test suites.
type MemStore struct {
	mu     sync.Mutex
	kv     map[string]memEntry
	lists  map[string][]string
	closed bool
}

type memEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func NewMemStore() *MemStore {
	return &MemStore{
		kv:    make(map[string]memEntry),
		lists: make(map[string][]string),
	}
}

func (m *MemStore) Set(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	e := memEntry{value: value}
	if ttl != NoExpiry {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.kv[key] = e
	return nil
}

func (m *MemStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, ErrClosed
	}
	e, ok := m.kv[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !time.Now().Before(e.expiresAt) {
		delete(m.kv, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.kv, key)
	return nil
}

func (m *MemStore) Exists(key string) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}

func (m *MemStore) RPush(key string, values ...string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	m.lists[key] = append(m.lists[key], values...)
	return len(m.lists[key]), nil
}

func (m *MemStore) LRange(key string, start, stop int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	list := m.lists[key]
	lo, hi, ok := clampRange(start, stop, len(list))
	if !ok {
		return nil, nil
	}
	out := make([]string, hi-lo)
	copy(out, list[lo:hi])
	return out, nil
}

func (m *MemStore) LLen(key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	return len(m.lists[key]), nil
}

func (m *MemStore) DeleteList(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.lists, key)
	return nil
}

func (m *MemStore) Lists(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	var names []string
	for name := range m.lists {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemStore) Ping() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
