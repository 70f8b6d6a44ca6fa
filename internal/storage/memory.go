package storage

import (
	"fmt"

	"hashbox/internal/models"

	"github.com/c-pro/geche"
)

// MemoryStorage keeps metadata records in process memory.
type MemoryStorage struct {
	files geche.Geche[string, FileMetadata]
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{files: geche.NewMapCache[string, FileMetadata]()}
}

func (s *MemoryStorage) UpsertFileMetadata(meta FileMetadata) error {
	s.files.Set(meta.Hash, meta)
	return nil
}

func (s *MemoryStorage) GetFileMetadata(hash string) (FileMetadata, error) {
	meta, err := s.files.Get(hash)
	if err != nil {
		return FileMetadata{}, fmt.Errorf("file metadata for %s: %w", hash, models.ErrNotFound)
	}
	return meta, nil
}
