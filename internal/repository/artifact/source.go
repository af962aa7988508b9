package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kailas-cloud/bcpredict/internal/db"
	"github.com/kailas-cloud/bcpredict/internal/domain"
)

// Source reads the raw artifact bytes.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
	String() string
}

// FileSource reads the artifact from a local file.
type FileSource struct {
	Path string
}

// Load reads the whole file.
func (s FileSource) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, s.Path)
		}
		return nil, fmt.Errorf("read artifact %s: %w", s.Path, err)
	}
	return data, nil
}

func (s FileSource) String() string { return "file:" + s.Path }

// kvStore is the consumer interface for the store-backed source (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// StoreSource reads the artifact from a key in the key-value store.
type StoreSource struct {
	store kvStore
	key   string
}

// NewStoreSource creates a store-backed source.
func NewStoreSource(s kvStore, key string) *StoreSource {
	return &StoreSource{store: s, key: key}
}

// Load fetches the artifact blob.
func (s *StoreSource) Load(ctx context.Context) ([]byte, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: key %s", domain.ErrArtifactNotFound, s.key)
		}
		return nil, fmt.Errorf("get artifact %s: %w", s.key, err)
	}
	return data, nil
}

// Publish writes an encoded artifact under the source key.
func (s *StoreSource) Publish(ctx context.Context, data []byte) error {
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("publish artifact %s: %w", s.key, err)
	}
	return nil
}

func (s *StoreSource) String() string { return "store:" + s.key }

// BytesSource serves an artifact already held in memory.
type BytesSource []byte

// Load returns the bytes unchanged.
func (s BytesSource) Load(_ context.Context) ([]byte, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty artifact", domain.ErrArtifactNotFound)
	}
	return s, nil
}

func (s BytesSource) String() string { return fmt.Sprintf("memory:%d bytes", len(s)) }
