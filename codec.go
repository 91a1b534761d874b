package msgsync

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v2"
)

// IndentWidth is the number of spaces per level when a catalog is rewritten.
const IndentWidth = 4

// Codec converts a catalog file to and from its in-memory form.
type Codec interface {
	Decode(data []byte) (Catalog, error)
	Encode(c Catalog) ([]byte, error)
}

// CodecFor picks a codec from the catalog file extension. JSON is the default.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLCodec{}
	default:
		return JSONCodec{}
	}
}

// catalogJSON sorts object keys and leaves <, > and & alone so that markup in
// translations survives a rewrite byte for byte.
var catalogJSON = jsoniter.Config{
	IndentionStep:          IndentWidth,
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

var errEmptyFile = errors.New("empty file")

// checkUTF8 rejects catalogs holding keys or values that are not valid UTF-8.
// jsoniter would write such bytes through unchanged and yaml.v2 would turn them
// into !!binary.
func checkUTF8(c Catalog) error {
	for k, v := range c {
		if !utf8.ValidString(k) || !utf8.ValidString(v) {
			return fmt.Errorf("entry %q: %w", k, ErrInvalidUTF8)
		}
	}
	return nil
}

// JSONCodec reads and writes flat JSON objects of strings.
type JSONCodec struct{}

// Decode parses a JSON object whose values are all strings.
func (JSONCodec) Decode(data []byte) (Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyFile
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}
	var c Catalog
	if err := catalogJSON.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if c == nil {
		return nil, ErrNotMapping
	}
	return c, nil
}

// Encode writes c with sorted keys and IndentWidth spaces per level.
func (JSONCodec) Encode(c Catalog) ([]byte, error) {
	if err := checkUTF8(c); err != nil {
		return nil, err
	}
	if len(c) == 0 {
		return []byte("{}"), nil
	}
	out, err := catalogJSON.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return out, nil
}

// YAMLCodec reads and writes flat YAML mappings of strings.
type YAMLCodec struct{}

// Decode parses a YAML mapping of strings. Duplicate keys are an error.
func (YAMLCodec) Decode(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if c == nil {
		return nil, ErrNotMapping
	}
	return c, nil
}

// Encode writes c as a mapping in sorted key order.
func (YAMLCodec) Encode(c Catalog) ([]byte, error) {
	if err := checkUTF8(c); err != nil {
		return nil, err
	}
	ms := make(yaml.MapSlice, 0, len(c))
	for _, key := range c.SortedKeys() {
		ms = append(ms, yaml.MapItem{Key: key, Value: c[key]})
	}
	out, err := yaml.Marshal(ms)
	if err != nil {
		return nil, fmt.Errorf("marshal YAML: %w", err)
	}
	return out, nil
}
