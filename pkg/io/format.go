package io

import (
	"path/filepath"
	"strings"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension. Anything other
// than .toml is read as JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}
