package objects

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"hashbox/internal/content"
	"hashbox/internal/filestore"
	"hashbox/internal/models"
	"hashbox/internal/storage"

	"github.com/c-pro/geche"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	// CacheTTL keeps recently read payloads in memory. Zero disables the cache.
	CacheTTL time.Duration

	// CacheEntries caps the number of cached payloads, so the cache never holds
	// more than CacheEntries*models.MaxFileSize bytes. Zero disables the cache.
	CacheEntries int
}

type cachedPayload struct {
	data    []byte
	expires time.Time
}

// Service is the Store implementation on top of a payload store and a metadata store.
type Service struct {
	files  filestore.FileStore
	meta   storage.MetadataStore
	cache  *geche.RingBuffer[string, cachedPayload]
	ttl    time.Duration
	writes singleflight.Group
	now    func() time.Time
}

var _ Store = (*Service)(nil)

// NewService wires the payload and metadata stores together.
// The payload cache is enabled only when both CacheTTL and CacheEntries are set.
func NewService(config Config, files filestore.FileStore, meta storage.MetadataStore) *Service {
	s := &Service{
		files: files,
		meta:  meta,
		now:   time.Now,
	}
	if config.CacheTTL > 0 && config.CacheEntries > 0 {
		s.cache = geche.NewRingBuffer[string, cachedPayload](config.CacheEntries)
		s.ttl = config.CacheTTL
	}
	return s
}

func (s *Service) Put(data []byte, filename string) (string, error) {
	if len(data) > models.MaxFileSize {
		return "", models.ErrSizeLimitExceeded
	}

	hash := HashBytes(data)

	// Concurrent uploads of the same bytes share one payload write.
	_, err, _ := s.writes.Do(hash, func() (any, error) {
		return nil, s.files.Save(bytes.NewReader(data), hash)
	})
	if err != nil {
		return "", &StorageError{Op: "write content", Hash: hash, Err: err}
	}

	// The name is last-writer-wins across concurrent uploads of the same content.
	now := s.now().Unix()
	err = s.meta.UpsertFileMetadata(storage.FileMetadata{
		Hash:      hash,
		Name:      filename,
		MimeType:  content.Sniff(data),
		Size:      int64(len(data)),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return "", &StorageError{Op: "write name", Hash: hash, Err: err}
	}

	return hash, nil
}

func (s *Service) Get(hash string) (models.Object, error) {
	if !ValidHash(hash) {
		return models.Object{}, fmt.Errorf("invalid content hash %q: %w", hash, models.ErrNotFound)
	}

	data, err := s.readContent(hash)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Object{}, &StorageError{Op: "read content", Hash: hash, Err: fmt.Errorf("%w: %w", models.ErrNotFound, err)}
		}
		return models.Object{}, &StorageError{Op: "read content", Hash: hash, Err: err}
	}

	obj := models.Object{Hash: hash, Filename: models.UnknownFilename, Data: data}
	meta, err := s.meta.GetFileMetadata(hash)
	switch {
	case err == nil:
		obj.Filename = meta.Name
		obj.SniffedType = meta.MimeType
		obj.CreatedAt = meta.CreatedAt
		obj.UpdatedAt = meta.UpdatedAt
		if meta.Size != 0 && meta.Size != int64(len(data)) {
			slog.Warn("stored size does not match payload", "hash", hash, "recorded", meta.Size, "actual", len(data))
		}
	case !errors.Is(err, models.ErrNotFound):
		slog.Warn("failed to read file name", "hash", hash, "error", err)
	}

	return obj, nil
}

func (s *Service) readContent(hash string) ([]byte, error) {
	if s.cache != nil {
		if p, err := s.cache.Get(hash); err == nil && s.now().Before(p.expires) {
			return p.data, nil
		}
	}

	rc, err := s.files.Get(hash)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", hash, err)
	}

	if s.cache != nil {
		// Refreshing an expired entry in place keeps one slot per hash.
		p := cachedPayload{data: data, expires: s.now().Add(s.ttl)}
		if _, ok := s.cache.SetIfPresent(hash, p); !ok {
			s.cache.SetIfAbsent(hash, p)
		}
	}
	return data, nil
}
