package cache

import (
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheService implements CacheService using memcache
type MemcacheService struct {
	client *memcache.Client
}

var _ CacheService = (*MemcacheService)(nil)

// NewMemcacheService creates a new memcache service
func NewMemcacheService(serverAddr string) *MemcacheService {
	client := memcache.New(serverAddr)
	client.Timeout = 500 * time.Millisecond
	return &MemcacheService{client: client}
}

// Get retrieves a value from memcache
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, translate(err)
	}
	return item.Value, nil
}

// Set stores a value in memcache with an expiration time
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	return m.client.Set(item(key, value, expiration))
}

// Add stores a value in memcache unless the key already exists
func (m *MemcacheService) Add(key string, value []byte, expiration time.Duration) error {
	return translate(m.client.Add(item(key, value, expiration)))
}

// Delete removes a value from memcache. A missing key is not an error.
func (m *MemcacheService) Delete(key string) error {
	if err := m.client.Delete(key); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return err
	}
	return nil
}

// Ping checks that the server is reachable
func (m *MemcacheService) Ping() error {
	return m.client.Ping()
}

// maxRelativeExpiry is the longest expiration memcache reads as relative;
// anything larger is taken as a unix timestamp
const maxRelativeExpiry = 30 * 24 * time.Hour

func item(key string, value []byte, expiration time.Duration) *memcache.Item {
	return &memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: expirySeconds(expiration),
	}
}

// expirySeconds converts d to memcache seconds. Zero or less means no expiry,
// partial seconds round up so a short TTL never becomes "forever", and
// durations past 30 days are capped.
func expirySeconds(d time.Duration) int32 {
	switch {
	case d <= 0:
		return 0
	case d > maxRelativeExpiry:
		d = maxRelativeExpiry
	}
	return int32((d + time.Second - 1) / time.Second)
}

func translate(err error) error {
	switch {
	case errors.Is(err, memcache.ErrCacheMiss):
		return ErrCacheMiss
	case errors.Is(err, memcache.ErrNotStored):
		return ErrExists
	}
	return err
}
