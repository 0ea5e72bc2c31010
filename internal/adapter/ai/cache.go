// Package ai implements the optional concept-mapping agent: prompt
// rendering, provider calls, reply validation, result caching and a
// circuit breaker around the provider.
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// ResultCache stores filtered agent results by request key.
// Implementations must be safe for concurrent use.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]string, bool)
	Set(ctx context.Context, key string, skills []string)
}

// memoryCache is an in-process cache with FIFO eviction.
type memoryCache struct {
	capacity int
	mu       sync.RWMutex
	m        map[string][]string
	ord      []string
}

// NewMemoryCache returns a FIFO cache holding up to capacity results.
// If capacity <= 0, nil is returned and callers skip caching.
func NewMemoryCache(capacity int) ResultCache {
	if capacity <= 0 {
		return nil
	}
	return &memoryCache{capacity: capacity, m: make(map[string][]string), ord: make([]string, 0, capacity)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	if !ok {
		return nil, false
	}
	return append([]string{}, v...), true
}

func (c *memoryCache) Set(_ context.Context, key string, skills []string) {
	v := append([]string{}, skills...)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[key]; exists {
		c.m[key] = v
		return
	}
	if len(c.ord) >= c.capacity {
		old := c.ord[0]
		c.ord = c.ord[1:]
		delete(c.m, old)
	}
	c.m[key] = v
	c.ord = append(c.ord, key)
}

// keyFor hashes everything that can change an agent's answer.
func keyFor(provider, model, text string, vocab []string) string {
	h := sha256.New()
	for _, part := range []string{provider, model, strings.TrimSpace(text)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	for _, v := range vocab {
		h.Write([]byte(v))
		h.Write([]byte{0x1f})
	}
	return hex.EncodeToString(h.Sum(nil))
}
