package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get("lock")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Add("lock", []byte("1"), time.Minute))
	assert.ErrorIs(t, c.Add("lock", []byte("2"), time.Minute), ErrExists)

	v, err := c.Get("lock")
	require.NoError(t, err)
	assert.Equal(t, "1", string(v))

	require.NoError(t, c.Set("lock", []byte("3"), time.Minute))
	v, _ = c.Get("lock")
	assert.Equal(t, "3", string(v))

	require.NoError(t, c.Delete("lock"))
	assert.NoError(t, c.Add("lock", []byte("4"), time.Minute))
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set("cooldown", []byte("x"), 10*time.Minute))
	require.NoError(t, c.Set("forever", []byte("y"), 0))

	now = now.Add(10 * time.Minute)

	_, err := c.Get("cooldown")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Add("cooldown", []byte("z"), time.Minute))

	_, err = c.Get("forever")
	assert.NoError(t, err)
}
