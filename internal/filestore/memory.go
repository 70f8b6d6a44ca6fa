package filestore

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/c-pro/geche"
)

// MemoryFileStore keeps payloads in process memory. Contents are lost on restart.
type MemoryFileStore struct {
	files *geche.Locker[string, []byte]
}

func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{
		files: geche.NewLocker[string, []byte](geche.NewMapCache[string, []byte]()),
	}
}

func (s *MemoryFileStore) Save(r io.Reader, hash string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	tx := s.files.Lock()
	defer tx.Unlock()
	if _, err := tx.Get(hash); err == nil {
		return nil
	}
	tx.Set(hash, data)
	return nil
}

func (s *MemoryFileStore) Get(hash string) (io.ReadCloser, error) {
	tx := s.files.RLock()
	defer tx.Unlock()
	data, err := tx.Get(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", hash, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
