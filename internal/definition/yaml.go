package definition

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a YAML graph definition.
//
// Decoding is strict: unknown fields (typos like "criticallity:") are
// rejected rather than silently ignored.
func LoadYAML(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, loadErrorf(ErrCodeNotFound, path, err, "definition file not found")
		}
		return nil, loadErrorf(ErrCodeGeneric, path, err, "failed to read definition: %v", err)
	}

	doc, err := ParseYAML(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return nil, err
	}
	doc.Source = path
	return doc, nil
}

// ParseYAML decodes a YAML graph definition from memory.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, loadErrorf(ErrCodeDecodeFailed, "", err, "definition is empty")
		}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, loadErrorf(ErrCodeDecodeFailed, "", err, "%v", err)
		}
		return nil, loadErrorf(ErrCodeParseFailed, "", err, "%v", err)
	}
	doc.Format = FormatYAML
	return &doc, nil
}
