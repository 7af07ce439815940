package storage

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryArchive keeps archived files in memory. Used by tests and local
// runs without object storage.
type MemoryArchive struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

// Object is one stored file
type Object struct {
	ContentType string
	Data        []byte
}

// NewMemoryArchive creates an empty archive
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{BaseURL: "memory://reports", objects: make(map[string]Object)}
}

// Put stores a copy of data under key
func (m *MemoryArchive) Put(_ context.Context, key, contentType string, data []byte) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return nil
}

// PresignGet returns a fake link valid for 15 minutes
func (m *MemoryArchive) PresignGet(_ context.Context, key string) (string, time.Time, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", time.Time{}, errors.New("object not found: " + key)
	}
	return m.BaseURL + "/" + key, time.Now().Add(15 * time.Minute), nil
}

// Get returns a stored object
func (m *MemoryArchive) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o, ok
}

// Key returns name unchanged
func (m *MemoryArchive) Key(name string) string {
	return name
}
