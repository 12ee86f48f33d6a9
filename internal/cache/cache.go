// Package cache keeps recently parsed documents keyed by a hash of their
// bytes, so front ends that receive the same upload repeatedly parse it once.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tsawler/pdfoutline"
)

// Opener parses document bytes
type Opener func(data []byte) (*pdfoutline.Document, error)

// Cache is a fixed-size LRU of parsed documents. It is safe for concurrent
// use.
type Cache struct {
	docs *lru.Cache[string, *pdfoutline.Document] // nil when disabled
	open Opener

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache holding at most size documents. A size of zero
// disables caching.
func New(size int, open Opener) *Cache {
	c := &Cache{open: open}
	if size > 0 {
		// lru.New only fails for a non-positive size
		c.docs, _ = lru.New[string, *pdfoutline.Document](size)
	}
	return c
}

// Key returns the cache key of document bytes
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns the parsed document for data, parsing it on a miss. Failed
// parses are not cached.
func (c *Cache) Get(data []byte) (*pdfoutline.Document, error) {
	key := Key(data)

	if c.docs != nil {
		if doc, ok := c.docs.Get(key); ok {
			c.hits.Add(1)
			return doc, nil
		}
	}
	c.misses.Add(1)

	doc, err := c.open(data)
	if err != nil {
		return nil, err
	}

	if c.docs != nil {
		// another caller may have parsed the same bytes meanwhile
		if prev, ok, _ := c.docs.PeekOrAdd(key, doc); ok {
			return prev, nil
		}
	}
	return doc, nil
}

// Len returns the number of cached documents
func (c *Cache) Len() int {
	if c.docs == nil {
		return 0
	}
	return c.docs.Len()
}

// Stats returns the hit and miss counts
func (c *Cache) Stats() (hits, misses int) {
	return int(c.hits.Load()), int(c.misses.Load())
}
