package storage

import (
	"encoding"

	"github.com/vmihailenco/msgpack/v5"
)

type Storeable interface {
	Key() []byte
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// MetadataStore keeps the companion record of a stored payload.
type MetadataStore interface {
	// UpsertFileMetadata creates or replaces the record for meta.Hash.
	UpsertFileMetadata(meta FileMetadata) error

	// GetFileMetadata returns the record for hash or an error wrapping models.ErrNotFound.
	GetFileMetadata(hash string) (FileMetadata, error)
}

// FileMetadata describes the most recent upload of a payload.
type FileMetadata struct {
	Hash      string `msgpack:"hash"`
	Name      string `msgpack:"name"`
	MimeType  string `msgpack:"mimeType"`
	Size      int64  `msgpack:"size"`
	CreatedAt int64  `msgpack:"createdAt"`
	UpdatedAt int64  `msgpack:"updatedAt"`
}

func (f *FileMetadata) Key() []byte {
	return []byte(f.Hash)
}

func (f *FileMetadata) MarshalBinary() (data []byte, err error) {
	type alias FileMetadata
	return msgpack.Marshal((*alias)(f))
}

func (f *FileMetadata) UnmarshalBinary(data []byte) error {
	type alias FileMetadata
	return msgpack.Unmarshal(data, (*alias)(f))
}
