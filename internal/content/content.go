package content

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// DefaultMimeType is used when nothing better can be inferred.
const DefaultMimeType = "application/octet-stream"

var dispositionEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// MimeType infers a content type from the extension of name.
// Known binary formats come from filetype's table, everything else from the
// system MIME table, and DefaultMimeType is returned when both miss.
func MimeType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return DefaultMimeType
	}
	if t := filetype.GetType(ext); t != filetype.Unknown && t.MIME.Value != "" {
		return t.MIME.Value
	}
	if t := mime.TypeByExtension("." + ext); t != "" {
		return t
	}
	return DefaultMimeType
}

// Sniff detects the content type from the leading bytes of data.
// It returns an empty string for unrecognised content.
func Sniff(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}

// Disposition builds an attachment Content-Disposition value for name.
func Disposition(name string) string {
	return `attachment; filename="` + dispositionEscaper.Replace(name) + `"`
}
