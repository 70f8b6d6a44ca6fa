package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"hashbox/internal/content"
	"hashbox/internal/models"
	"hashbox/internal/objects"
)

// Multipart framing around the file part is allowed on top of the payload limit,
// so that oversized files are still reported as such rather than as a broken stream.
const maxUploadBody = models.MaxFileSize + 64<<10

// SniffedTypeHeader carries the type detected from the payload bytes at upload
// time. Content-Type itself always follows the file name.
const SniffedTypeHeader = "X-Content-Type-Sniffed"

var (
	noFileMessage       = "No file uploaded"
	missingFieldMessage = "Missing field name"
	sizeLimitMessage    = fmt.Sprintf("File size exceeds the maximum limit of %d bytes", models.MaxFileSize)
)

type API struct {
	store   objects.Store
	backend string
}

func New(store objects.Store, backend string) *API {
	return &API{store: store, backend: backend}
}

// UploadHandler stores the first part of a multipart body and answers with its
// content hash as a JSON string. Parts after the first one are ignored.
func (a *API) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	mr, err := r.MultipartReader()
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	part, err := mr.NextPart()
	// A bare io.EOF means a well-formed body without parts; anything else,
	// including an empty body, is a broken stream.
	if err == io.EOF {
		writeText(w, http.StatusBadRequest, noFileMessage)
		return
	}
	if err != nil {
		writeReadError(w, err)
		return
	}
	defer func() { _ = part.Close() }()

	if part.FormName() == "" {
		writeText(w, http.StatusBadRequest, missingFieldMessage)
		return
	}
	filename := part.FileName()
	if filename == "" {
		writeText(w, http.StatusBadRequest, noFileMessage)
		return
	}

	data, err := io.ReadAll(io.LimitReader(part, models.MaxFileSize+1))
	if err != nil {
		writeReadError(w, err)
		return
	}
	if len(data) > models.MaxFileSize {
		writeText(w, http.StatusBadRequest, sizeLimitMessage)
		return
	}

	hash, err := a.store.Put(data, filename)
	if err != nil {
		if errors.Is(err, models.ErrSizeLimitExceeded) {
			writeText(w, http.StatusBadRequest, sizeLimitMessage)
			return
		}
		log.Printf("failed to store upload %q: %v", filename, err)
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("stored %s (%d bytes) as %q", hash, len(data), filename)

	body, err := json.Marshal(hash)
	if err != nil {
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// DownloadHandler returns the stored bytes with the original file name.
func (a *API) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	obj, err := a.store.Get(id)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Printf("failed to read %q: %v", id, err)
		}
		writeText(w, http.StatusNotFound, err.Error())
		return
	}

	h := w.Header()
	h.Set("Content-Type", content.MimeType(obj.Filename))
	h.Set("Content-Disposition", content.Disposition(obj.Filename))
	h.Set("Content-Length", strconv.Itoa(len(obj.Data)))
	if obj.SniffedType != "" {
		h.Set(SniffedTypeHeader, obj.SniffedType)
	}
	if obj.UpdatedAt > 0 {
		h.Set("Last-Modified", time.Unix(obj.UpdatedAt, 0).UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(obj.Data); err != nil {
		log.Printf("failed to write %s: %v", obj.Hash, err)
		return
	}
	slog.Debug("served object", "hash", obj.Hash, "size", len(obj.Data), "sniffed", obj.SniffedType, "created", obj.CreatedAt)
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(models.HealthResponse{
		Status:  "ok",
		Backend: a.backend,
	}); err != nil {
		log.Printf("failed to encode health response: %v", err)
	}
}

func writeReadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeText(w, http.StatusBadRequest, sizeLimitMessage)
		return
	}
	writeText(w, http.StatusInternalServerError, err.Error())
}

// writeText is http.Error without the trailing newline, so clients get the message verbatim.
func writeText(w http.ResponseWriter, status int, message string) {
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, message)
}
