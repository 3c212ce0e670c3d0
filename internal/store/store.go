// Package store provides the key/value and list persistence Mowzio uses for
// conversation memory and response caching. The interface mirrors the subset
// of operations the rest of the code needs; SQLite backs the real
// implementation and MemStore backs tests and throwaway sessions.
package store

import (
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// Error wraps a backend failure with the operation and key that caused it.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NoExpiry disables expiration for Set.
const NoExpiry time.Duration = 0

// Store is the persistence surface for memory and caching.
type Store interface {
	// Set stores a value under key. ttl of NoExpiry means the key never
	// expires.
	Set(key, value string, ttl time.Duration) error
	// Get returns the value for key. ok is false when the key is absent
	// or expired.
	Get(key string) (value string, ok bool, err error)
	// Delete removes a key. Removing an absent key is not an error.
	Delete(key string) error
	// Exists reports whether key is present and unexpired.
	Exists(key string) (bool, error)

	// RPush appends values to the list stored at key, creating it if
	// needed, and returns the new length.
	RPush(key string, values ...string) (int, error)
	// LRange returns list elements between start and stop inclusive.
	// Negative indices count from the end, -1 being the last element.
	LRange(key string, start, stop int) ([]string, error)
	// LLen returns the length of the list stored at key.
	LLen(key string) (int, error)
	// DeleteList removes an entire list.
	DeleteList(key string) error
	// Lists returns the names of all lists whose key starts with prefix.
	Lists(prefix string) ([]string, error)

	// Ping verifies the backend is reachable.
	Ping() error
	Close() error
}

// clampRange converts redis-style start/stop indices into go slice bounds
// over a list of length n. It returns ok=false for an empty selection.
func clampRange(start, stop, n int) (int, int, bool) {
	if n == 0 {
		return 0, 0, false
	}
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop + 1, true
}
