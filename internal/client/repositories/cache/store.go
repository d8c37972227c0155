// Package cache is the local "latest version per project" store consulted
// before the network when a newsletter is opened.
//
// Two drivers exist: SQLiteStore persists entries across runs, MemoryStore
// keeps them for the lifetime of the process. Both compress values with zstd.
package cache

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/dmitrijs2005/letterpress/internal/common"
)

// Store is a string-keyed blob store.
//
// Get returns (nil, nil) for a missing key and an error wrapping
// common.ErrCacheCorrupt when the stored bytes cannot be decoded.
// Keys returns every key starting with prefix, in no particular order.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// codec compresses stored values. A single encoder and decoder are safe for
// concurrent EncodeAll/DecodeAll calls.
type codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newCodec() (*codec, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &codec{encoder: encoder, decoder: decoder}, nil
}

func (c *codec) encode(val []byte) []byte {
	return c.encoder.EncodeAll(val, make([]byte, 0, len(val)/2))
}

func (c *codec) decode(key string, val []byte) ([]byte, error) {
	out, err := c.decoder.DecodeAll(val, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrCacheCorrupt, key, err)
	}
	return out, nil
}
