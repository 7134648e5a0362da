// Package storage provides object storage implementations for file uploads.
package storage

import (
	"context"
	"errors"
	"io"
	"sync"

	apptrade "github.com/storefront/backend/internal/application/trade"
)

// Ensure MemoryObjectStorage implements the upload port
var _ apptrade.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps uploaded objects in memory.
// Use this for development and tests when no S3 backend is available.
type MemoryObjectStorage struct {
	// BaseURL is the base URL for generated object links
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryObjectStorage creates a new MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Upload stores the content in memory and returns a deterministic URL
func (s *MemoryObjectStorage) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return s.BaseURL + "/" + key, nil
}

// Delete removes the object stored under the given key
func (s *MemoryObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()

	return nil
}

// Get returns the stored content for a key
func (s *MemoryObjectStorage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len returns the number of stored objects
func (s *MemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
