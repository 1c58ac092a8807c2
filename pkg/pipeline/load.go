package pipeline

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/seed/pkg/cache"
	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/errors"
	"github.com/matzehuels/seed/pkg/io"
)

// Load reads the document at path. The format follows the file extension.
func Load(path string) (*ast.Document, error) {
	return io.ImportDocument(path)
}

// Parse decodes a document held in memory.
func Parse(data []byte, format io.Format) (*ast.Document, error) {
	return io.ParseDocument(data, format)
}

// ParseEmbedded decodes a document embedded in a JSON request. A JSON
// document is embedded as an object; a TOML document as a string.
// An empty format means JSON.
func ParseEmbedded(raw json.RawMessage, format string) (*ast.Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request has no document")
	}
	switch io.Format(format) {
	case "", io.FormatJSON:
		return Parse(trimmed, io.FormatJSON)
	case io.FormatTOML:
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "a toml document must be sent as a string")
		}
		return Parse([]byte(text), io.FormatTOML)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
}

// HashDocument returns the content hash of doc's canonical JSON form.
// Documents that differ only in key order or formatting hash equally.
func HashDocument(doc *ast.Document) (string, error) {
	var buf bytes.Buffer
	if err := io.WriteDocument(doc, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}
