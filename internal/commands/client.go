package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hashbox/internal/config"
	"hashbox/internal/models"
	"hashbox/internal/objects"
)

var client = &http.Client{Timeout: time.Minute}

// Upload sends the file at path to the server and prints the returned id.
func Upload(path string, cfg *config.Config, out io.Writer) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > models.MaxFileSize {
		return "", fmt.Errorf("%s is %d bytes: %w", path, len(data), models.ErrSizeLimitExceeded)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Post(endpoint(cfg, "/upload"), mw.FormDataContentType(), &body)
	if err != nil {
		return "", fmt.Errorf("failed to call upload API: %w. Is the server running?", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed (Status: %d): %s", resp.StatusCode, string(msg))
	}

	var hash string
	if err := json.NewDecoder(resp.Body).Decode(&hash); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if want := objects.HashBytes(data); hash != want {
		return "", fmt.Errorf("server returned id %s, local content hashes to %s", hash, want)
	}

	fmt.Fprintln(out, hash)
	return hash, nil
}

// Download fetches the object with the given id, checks that the body hashes to
// the id and writes it to dest. An empty dest means the file name the server
// reports, in the current directory.
func Download(hash, dest string, cfg *config.Config, out io.Writer) (string, error) {
	resp, err := client.Get(endpoint(cfg, "/download/"+hash))
	if err != nil {
		return "", fmt.Errorf("failed to call download API: %w. Is the server running?", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("download failed (Status: %d): %s", resp.StatusCode, string(msg))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, models.MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if got := objects.HashBytes(data); got != hash {
		return "", fmt.Errorf("content hash mismatch: got %s, want %s", got, hash)
	}

	if dest == "" {
		dest = attachmentName(resp.Header.Get("Content-Disposition"))
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}

	fmt.Fprintf(out, "%s (%d bytes, %s)\n", dest, len(data), resp.Header.Get("Content-Type"))
	return dest, nil
}

func endpoint(cfg *config.Config, path string) string {
	return strings.TrimSuffix(cfg.ServerURL, "/") + path
}

// attachmentName extracts a safe local file name from a Content-Disposition value.
func attachmentName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return models.UnknownFilename
	}
	name := filepath.Base(filepath.Clean("/" + params["filename"]))
	if name == "/" || name == "." || name == "" {
		return models.UnknownFilename
	}
	return name
}
