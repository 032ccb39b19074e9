package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryMetadataStore is an in-memory implementation of MetadataStore.
type MemoryMetadataStore struct {
	mu     sync.RWMutex
	values map[string]string
	// FailSaves makes every Save return an error, for exercising the
	// persistence-failure path.
	FailSaves bool
	// FailLoads makes every Load return an error.
	FailLoads bool
}

// NewMemoryMetadataStore creates a new instance of MemoryMetadataStore.
func NewMemoryMetadataStore() *MemoryMetadataStore {
	return &MemoryMetadataStore{
		values: make(map[string]string),
	}
}

// Load returns the value stored under key.
func (s *MemoryMetadataStore) Load(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailLoads {
		return "", false, fmt.Errorf("metadata store load failure for %s", key)
	}
	value, ok := s.values[key]
	return value, ok, nil
}

// Save replaces the value stored under key.
func (s *MemoryMetadataStore) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSaves {
		return fmt.Errorf("metadata store save failure for %s", key)
	}
	s.values[key] = value
	return nil
}

// Seed stores a value directly, bypassing failure injection. Intended for
// arranging test fixtures before hydration.
func (s *MemoryMetadataStore) Seed(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// MemoryBlobStore is an in-memory implementation of BlobStore.
type MemoryBlobStore struct {
	mu       sync.RWMutex
	payloads map[string]string
	// FailOps makes every operation return an error.
	FailOps bool
}

// NewMemoryBlobStore creates a new instance of MemoryBlobStore.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		payloads: make(map[string]string),
	}
}

// Put stores the payload under id.
func (s *MemoryBlobStore) Put(ctx context.Context, id, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailOps {
		return fmt.Errorf("blob store put failure for %s", id)
	}
	s.payloads[id] = payload
	return nil
}

// Get returns the payload stored under id.
func (s *MemoryBlobStore) Get(ctx context.Context, id string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailOps {
		return "", false, fmt.Errorf("blob store get failure for %s", id)
	}
	payload, ok := s.payloads[id]
	return payload, ok, nil
}

// Delete removes the payload stored under id.
func (s *MemoryBlobStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailOps {
		return fmt.Errorf("blob store delete failure for %s", id)
	}
	delete(s.payloads, id)
	return nil
}

// Len reports how many payloads are currently stored.
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.payloads)
}

// Has reports whether a payload is stored under id.
func (s *MemoryBlobStore) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.payloads[id]
	return ok
}
