package memory

import (
	"context"
	"fmt"
	"sync"

	"payslip/domain/core"
	"payslip/ports"
)

type blob struct {
	data     []byte
	revision core.Revision
	message  string
}

// BlobStore is an in-memory ports.BlobStore. StatErr, when set, is returned by
// every Stat call to simulate an unreachable or misbehaving remote.
type BlobStore struct {
	mu      sync.Mutex
	objects map[string]blob
	StatErr error
}

// NewBlobStore creates an empty store.
func NewBlobStore() *BlobStore {
	return &BlobStore{objects: make(map[string]blob)}
}

// Name identifies the store in logs.
func (s *BlobStore) Name() string { return "memory" }

// Stat returns the current revision of key.
func (s *BlobStore) Stat(ctx context.Context, key string) (*ports.BlobMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.StatErr != nil {
		return nil, s.StatErr
	}
	b, ok := s.objects[key]
	if !ok {
		return nil, core.NewBlobNotFoundError(key)
	}
	return &ports.BlobMeta{Key: key, Revision: b.revision, Size: int64(len(b.data))}, nil
}

// Create stores key, failing if it already exists.
func (s *BlobStore) Create(ctx context.Context, key string, data []byte, message string) (*ports.BlobMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; ok {
		return nil, fmt.Errorf("%w: %s already exists", core.ErrRevisionConflict, key)
	}
	return s.put(key, data, message), nil
}

// Update replaces key when rev matches its current revision.
func (s *BlobStore) Update(ctx context.Context, key string, data []byte, rev core.Revision, message string) (*ports.BlobMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, core.NewBlobNotFoundError(key)
	}
	if b.revision != rev {
		return nil, fmt.Errorf("%w: %s has %s, not %s", core.ErrRevisionConflict, key, b.revision, rev)
	}
	return s.put(key, data, message), nil
}

func (s *BlobStore) put(key string, data []byte, message string) *ports.BlobMeta {
	b := blob{data: append([]byte(nil), data...), revision: core.ContentRevision(data), message: message}
	s.objects[key] = b
	return &ports.BlobMeta{Key: key, Revision: b.revision, Size: int64(len(b.data))}
}

// Get returns the stored bytes and commit message for key.
func (s *BlobStore) Get(key string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), b.data...), b.message, true
}
