package msgsync

import (
	"errors"
	"fmt"
)

// ErrNotMapping is returned when a catalog file decodes to something other than a
// key/value object (null, a list, a scalar, an empty YAML document).
var ErrNotMapping = errors.New("catalog is not a key/value mapping")

// ErrInvalidUTF8 is returned for source or catalog text that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// CatalogError reports that the catalog could not be opened or parsed. The run stops
// with a pending status; no source files are read after it.
type CatalogError struct {
	Path string
	err  error
}

func (ce *CatalogError) Error() string {
	return fmt.Sprintf("Error opening file %s: %v", ce.Path, ce.err)
}

func (ce *CatalogError) Unwrap() error {
	return ce.err
}

// SourceError reports a source file that could not be read. It aborts the whole
// extraction.
type SourceError struct {
	Path string
	err  error
}

func (se *SourceError) Error() string {
	return fmt.Sprintf("read source %s: %v", se.Path, se.err)
}

func (se *SourceError) Unwrap() error {
	return se.err
}

func newCatalogError(path string, err error) error {
	return &CatalogError{Path: path, err: err}
}

func newSourceError(path string, err error) error {
	return &SourceError{Path: path, err: err}
}
