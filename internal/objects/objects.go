// Package objects implements the content-addressed store: payloads are keyed by
// the SHA-256 of their bytes and carry the name they were last uploaded under.
package objects

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"hashbox/internal/models"
)

// HashLength is the length of a hex encoded content hash.
const HashLength = sha256.Size * 2

// Store is the content store used by the HTTP layer.
type Store interface {
	// Put stores data under its content hash and records filename for it.
	Put(data []byte, filename string) (string, error)

	// Get returns the payload and file name stored under hash.
	Get(hash string) (models.Object, error)
}

// StorageError reports a failure of the underlying payload or metadata backend.
type StorageError struct {
	Op   string
	Hash string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Hash, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// HashBytes returns the lowercase hex SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashReader returns the lowercase hex SHA-256 of everything read from r.
func HashReader(r io.Reader) (string, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// ValidHash reports whether s is a 64 character lowercase hex digest.
func ValidHash(s string) bool {
	if len(s) != HashLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
