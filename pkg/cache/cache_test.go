package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New(10, time.Minute)

	require.NoError(t, c.Set("a", []byte("hello"), 0))

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "hello", string(v))
}

func TestCache_GetCopyDoesNotAliasStoredValue(t *testing.T) {
	c := New(10, time.Minute)

	orig := []byte("hello")
	require.NoError(t, c.Set("a", orig, 0))
	orig[0] = 'X'

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "hello", string(v))

	v[0] = 'Y'

	v2, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "hello", string(v2))
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	c := New(10, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCache_ExpiryIsLazilyEvicted(t *testing.T) {
	c := New(10, time.Minute)
	fixed := time.Now()
	c.now = func() time.Time { return fixed }

	require.NoError(t, c.Set("a", []byte("v"), 10*time.Millisecond))
	assert.Equal(t, 1, c.Len())

	c.now = func() time.Time { return fixed.Add(time.Second) }

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_CapacityEvictsLRU(t *testing.T) {
	c := New(2, time.Minute)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Set("b", []byte("2"), 0))
	require.NoError(t, c.Set("c", []byte("3"), 0))

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")

	_, ok = c.Get("b")
	assert.True(t, ok)

	_, ok = c.Get("c")
	assert.True(t, ok)

	assert.Equal(t, 2, c.Len())
}

func TestCache_GetTouchesRecency(t *testing.T) {
	c := New(2, time.Minute)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Set("b", []byte("2"), 0))

	_, ok := c.Get("a")
	require.True(t, ok)

	require.NoError(t, c.Set("c", []byte("3"), 0))

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted as the least recently used")

	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestCache_SetReplacesExistingKey(t *testing.T) {
	c := New(10, time.Minute)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Set("a", []byte("2"), 0))

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "2", string(v))
	assert.Equal(t, 1, c.Len())
}

func TestCache_SetRejectsOverlongKey(t *testing.T) {
	c := New(10, time.Minute)

	longKey := make([]byte, MaxKeyLength+1)
	for i := range longKey {
		longKey[i] = 'k'
	}

	err := c.Set(string(longKey), []byte("v"), 0)
	assert.ErrorIs(t, err, ErrKeyTooLong)
	assert.Equal(t, 0, c.Len())
}

func TestCache_InvalidateAndClear(t *testing.T) {
	c := New(10, time.Minute)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	require.NoError(t, c.Set("b", []byte("2"), 0))

	c.Invalidate("a")

	_, ok := c.Get("a")
	assert.False(t, ok)

	_, ok = c.Get("b")
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(100, time.Minute)

	done := make(chan struct{})

	for i := 0; i < 20; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()

			key := string(rune('a' + n%26))

			for j := 0; j < 100; j++ {
				_ = c.Set(key, []byte("v"), 0)
				c.Get(key)
			}
		}(i)
	}

	for i := 0; i < 20; i++ {
		<-done
	}

	assert.LessOrEqual(t, c.Len(), 100)
}
