package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"hashbox/internal/models"

	"go.etcd.io/bbolt"
)

var (
	bucketBlobs = []byte("blobs")
	bucketFiles = []byte("files")
)

// BboltStorage keeps payloads and their metadata in a single bbolt file.
// It implements both filestore.FileStore and MetadataStore.
type BboltStorage struct {
	db *bbolt.DB
}

func NewBboltStorage(path string) (*BboltStorage, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketBlobs); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketFiles); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BboltStorage{db: db}, nil
}

func (s *BboltStorage) Close() error {
	return s.db.Close()
}

// Save stores the payload under hash unless one is already present.
func (s *BboltStorage) Save(r io.Reader, hash string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBlobs)
		if b.Get([]byte(hash)) != nil {
			return nil
		}
		if err := b.Put([]byte(hash), data); err != nil {
			return fmt.Errorf("failed to put blob %s: %w", hash, err)
		}
		return nil
	})
}

// Get returns a copy of the payload stored under hash.
func (s *BboltStorage) Get(hash string) (io.ReadCloser, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketBlobs).Get([]byte(hash))
		if v == nil {
			return fmt.Errorf("failed to open file %s: %w", hash, os.ErrNotExist)
		}
		// v is only valid for the lifetime of the transaction.
		data = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// UpsertFileMetadata stores the record, keeping CreatedAt of an existing one.
func (s *BboltStorage) UpsertFileMetadata(meta FileMetadata) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		if existing := b.Get(meta.Key()); existing != nil {
			var prev FileMetadata
			if err := prev.UnmarshalBinary(existing); err == nil && prev.CreatedAt != 0 {
				meta.CreatedAt = prev.CreatedAt
			}
		}
		return putRecord(b, &meta)
	})
}

func putRecord(b *bbolt.Bucket, item Storeable) error {
	data, err := item.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return b.Put(item.Key(), data)
}

func (s *BboltStorage) GetFileMetadata(hash string) (FileMetadata, error) {
	var meta FileMetadata
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		data := b.Get([]byte(hash))
		if data == nil {
			return fmt.Errorf("file metadata for %s: %w", hash, models.ErrNotFound)
		}
		return meta.UnmarshalBinary(data)
	})
	return meta, err
}
