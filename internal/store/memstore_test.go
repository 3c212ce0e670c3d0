package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreSetGetDelete(t *testing.T) {
	m := NewMemStore()

	_, ok, err := m.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set("k", "v", NoExpiry))
	v, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Delete("k"))
	ok, err = m.Exists("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStoreExpiry(t *testing.T) {
	m := NewMemStore()

	require.NoError(t, m.Set("gone", "v", -time.Second))
	_, ok, err := m.Get("gone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStoreLists(t *testing.T) {
	m := NewMemStore()

	n, err := m.RPush("l", "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := m.LRange("l", -2, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got)

	// LRange returns a copy.
	got[0] = "mutated"
	fresh, err := m.LRange("l", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fresh)

	names, err := m.Lists("l")
	require.NoError(t, err)
	assert.Equal(t, []string{"l"}, names)

	require.NoError(t, m.DeleteList("l"))
	length, err := m.LLen("l")
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestMemStoreClosed(t *testing.T) {
	m := NewMemStore()
	require.NoError(t, m.Close())

	assert.ErrorIs(t, m.Set("k", "v", NoExpiry), ErrClosed)
	_, _, err := m.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Ping(), ErrClosed)
}
