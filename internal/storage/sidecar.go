package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hashbox/internal/models"
)

// NameSuffix marks the file holding the original name next to a payload.
const NameSuffix = ".name"

// SidecarStorage persists only the file name, as <root>/<hash>.name next to the payload.
type SidecarStorage struct {
	root string
}

func NewSidecarStorage(root string) (*SidecarStorage, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}
	return &SidecarStorage{root: root}, nil
}

func (s *SidecarStorage) getPath(hash string) string {
	return filepath.Join(s.root, hash+NameSuffix)
}

// UpsertFileMetadata overwrites the name file. Fields other than Name are not persisted.
func (s *SidecarStorage) UpsertFileMetadata(meta FileMetadata) error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.root, err)
	}

	tmp, err := os.CreateTemp(s.root, "name-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.WriteString(meta.Name); err != nil {
		return fmt.Errorf("failed to write name: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.getPath(meta.Hash)); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

func (s *SidecarStorage) GetFileMetadata(hash string) (FileMetadata, error) {
	data, err := os.ReadFile(s.getPath(hash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileMetadata{}, fmt.Errorf("file metadata for %s: %w", hash, models.ErrNotFound)
		}
		return FileMetadata{}, fmt.Errorf("failed to read name of %s: %w", hash, err)
	}
	return FileMetadata{Hash: hash, Name: string(data)}, nil
}
