package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// MemoryBucket keeps objects in process. Used by tests and local runs without
// cloud credentials (STORAGE_DRIVER=memory in development).
type MemoryBucket struct {
	mu      sync.Mutex
	base    string
	objects map[string]MemoryObject

	// Uploads counts Upload calls, successful or not.
	Uploads int
	// FailUpload / FailRemove make the next calls fail.
	FailUpload error
	FailRemove error
}

type MemoryObject struct {
	Data        []byte
	ContentType string
}

func NewMemoryBucket(base string) *MemoryBucket {
	return &MemoryBucket{base: strings.TrimRight(base, "/"), objects: map[string]MemoryObject{}}
}

func (m *MemoryBucket) Name() string { return "memory" }

func (m *MemoryBucket) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	m.mu.Lock()
	m.Uploads++
	fail := m.FailUpload
	m.mu.Unlock()
	if fail != nil {
		return fail
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = MemoryObject{Data: data, ContentType: contentType}
	return nil
}

func (m *MemoryBucket) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRemove != nil {
		return m.FailRemove
	}
	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("object %q not found", key)
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryBucket) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return m.base + "/" + key
}

func (m *MemoryBucket) Ping(ctx context.Context) error { return nil }

func (m *MemoryBucket) Get(key string) (MemoryObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	return o, ok
}

func (m *MemoryBucket) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
