package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coocood/freecache"
)

// MemoryStore keeps entries in a freecache ring for the current process.
// freecache rejects a single entry larger than 1/1024 of the cache size;
// such writes fail and the caller carries on without a cache entry.
type MemoryStore struct {
	cache *freecache.Cache
	codec *codec
}

// NewMemoryStore allocates a store of sizeMB megabytes.
func NewMemoryStore(sizeMB int) (*MemoryStore, error) {
	if sizeMB <= 0 {
		return nil, fmt.Errorf("memory cache size must be positive, got %d", sizeMB)
	}
	c, err := newCodec()
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: freecache.NewCache(sizeMB * 1024 * 1024), codec: c}, nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	raw, err := m.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache[%s]: %w", key, err)
	}
	return m.codec.decode(key, raw)
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if err := m.cache.Set([]byte(key), m.codec.encode(value), 0); err != nil {
		return fmt.Errorf("failed to set cache[%s]: %w", key, err)
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.cache.Del([]byte(key))
	return nil
}

func (m *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	it := m.cache.NewIterator()
	for entry := it.Next(); entry != nil; entry = it.Next() {
		if key := string(entry.Key); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
