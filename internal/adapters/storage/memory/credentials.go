package memory

import (
	"sync"

	"livestock-client/internal/ports/storage"
)

// Credentials es el adapter in-memory de storage.Credentials (tests y dev).
type Credentials struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewCredentials() *Credentials {
	return &Credentials{
		records: make(map[string][]byte),
	}
}

func (c *Credentials) Get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.records[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (c *Credentials) Put(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	c.records[key] = v
	return nil
}

func (c *Credentials) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.records, key)
	return nil
}

func (c *Credentials) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = make(map[string][]byte)
	return nil
}
