package filestore

import (
	"io"
)

// FileStore is an interface for storing and retrieving file payloads by their content hash.
type FileStore interface {
	// Save saves the file content with the given hash.
	// It is idempotent: if a file with the same hash already exists, it returns nil
	// and leaves the stored content untouched.
	Save(r io.Reader, hash string) error

	// Get retrieves the file content for the given hash.
	// Errors for missing content wrap os.ErrNotExist.
	Get(hash string) (io.ReadCloser, error)
}
