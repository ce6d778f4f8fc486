package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("key", "value")
	v, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)

	c.Delete("key")
	_, ok = c.Get("key")
	assert.False(t, ok)
}

func TestSetWithTTLExpires(t *testing.T) {
	c := New(time.Minute)

	c.SetWithTTL("short", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
}

func TestFlush(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Flush()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestMemoize(t *testing.T) {
	c := New(time.Minute)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return "result", nil
	}

	v, err := c.Memoize("k", compute)
	require.NoError(t, err)
	assert.Equal(t, "result", v)

	v, err = c.Memoize("k", compute)
	require.NoError(t, err)
	assert.Equal(t, "result", v)
	assert.Equal(t, 1, calls)
}

func TestMemoizeDoesNotCacheErrors(t *testing.T) {
	c := New(time.Minute)

	boom := errors.New("boom")
	calls := 0
	failing := func() (interface{}, error) {
		calls++
		return nil, boom
	}

	_, err := c.Memoize("k", failing)
	assert.ErrorIs(t, err, boom)
	_, err = c.Memoize("k", failing)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
