package msgsync

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

//go:generate mockgen -source=$GOFILE -package mock_msgsync -destination=test/mock/mock_msgsync/$GOFILE

// Store loads and persists the reference catalog.
type Store interface {
	Path() string
	Load() (Catalog, error)
	Save(c Catalog) error
}

// FileStore keeps a catalog in a single file. The whole file is rewritten on Save.
type FileStore struct {
	fs    afero.Fs
	path  string
	codec Codec
}

// NewFileStore returns a store for path on fs, with the codec picked from the
// file extension.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path, codec: CodecFor(path)}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the catalog. Any failure is a *CatalogError.
func (s *FileStore) Load() (Catalog, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, newCatalogError(s.path, err)
	}
	defer f.Close()

	data, err := afero.ReadAll(f)
	if err != nil {
		return nil, newCatalogError(s.path, err)
	}
	c, err := s.codec.Decode(data)
	if err != nil {
		return nil, newCatalogError(s.path, err)
	}
	return c, nil
}

// Save encodes c and replaces the catalog file through a temporary sibling, so a
// failed write never leaves a truncated catalog behind.
func (s *FileStore) Save(c Catalog) error {
	data, err := s.codec.Encode(c)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	mode := os.FileMode(0o644)
	if info, err := s.fs.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(s.fs, filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = s.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := s.fs.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	committed = true
	return nil
}
