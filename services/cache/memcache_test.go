package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")
	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}
	defer mc.Delete("test_key")

	err := mc.Set("test_key", []byte("test_value"), 2*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("test_key")
	assert.NoError(t, err)
	assert.Equal(t, "test_value", string(value))

	// Add refuses an existing key
	err = mc.Add("test_key", []byte("other"), 2*time.Second)
	assert.ErrorIs(t, err, ErrExists)

	err = mc.Delete("test_key")
	assert.NoError(t, err)

	_, err = mc.Get("test_key")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, mc.Add("test_key", []byte("fresh"), 2*time.Second))

	// deleting twice is fine
	assert.NoError(t, mc.Delete("test_key"))
	assert.NoError(t, mc.Delete("test_key"))
}

func TestExpirySeconds(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want int32
	}{
		{"zero never expires", 0, 0},
		{"negative never expires", -time.Second, 0},
		{"sub-second rounds up", 300 * time.Millisecond, 1},
		{"partial second rounds up", 1500 * time.Millisecond, 2},
		{"whole minutes", 10 * time.Minute, 600},
		{"thirty days", 30 * 24 * time.Hour, 2592000},
		{"capped past thirty days", 31 * 24 * time.Hour, 2592000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expirySeconds(tt.in))
		})
	}
}
