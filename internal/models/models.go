package models

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrNoFileUploaded    = errors.New("no file uploaded")
	ErrMissingFieldName  = errors.New("missing field name")
	ErrSizeLimitExceeded = errors.New("file size limit exceeded")
)

const (
	// MaxFileSize is the largest payload accepted by the store, in bytes.
	MaxFileSize = 1_000_000

	// UnknownFilename is reported when an object has no file name record.
	UnknownFilename = "unknown"
)

// Object is a stored payload together with the name it was last uploaded under.
// SniffedType, CreatedAt and UpdatedAt are zero when the metadata backend does
// not record them.
type Object struct {
	Hash        string `json:"hash"`
	Filename    string `json:"filename"`
	SniffedType string `json:"sniffedType,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
	UpdatedAt   int64  `json:"updatedAt,omitempty"`
	Data        []byte `json:"-"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}
