package content

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

//go:embed usage.md
var usageMarkdown []byte

var policy = bluemonday.UGCPolicy()

// Sanitize removes unsafe HTML from the input.
func Sanitize(input []byte) []byte {
	return policy.SanitizeBytes(input)
}

// RenderUsage converts the embedded usage document into a standalone HTML page.
func RenderUsage() ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert(usageMarkdown, &body); err != nil {
		return nil, fmt.Errorf("failed to render usage page: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>hashbox</title></head><body>\n")
	page.Write(Sanitize(body.Bytes()))
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}
