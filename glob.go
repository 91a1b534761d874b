package msgsync

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ExpandPatterns expands source patterns on fsys, including recursive `**`, for shells
// that did not already do it. Directories are skipped, duplicates dropped, and a
// pattern matching nothing contributes nothing.
//
// Wildcards do not match names starting with "."; a pattern segment that itself
// starts with "." lets hidden files and directories through.
func ExpandPatterns(fsys afero.Fs, patterns []string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		matches, err := globFs(fsys, pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			logger.Warn("source pattern matched no files", zap.String("pattern", pattern))
			continue
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out, nil
}

// globFs splits pattern into its literal base directory and the wildcard rest, and
// globs the rest on fsys rooted at base. io/fs names are unrooted, so absolute
// patterns need the base to be peeled off first.
func globFs(fsys afero.Fs, pattern string) ([]string, error) {
	slashed := path.Clean(filepath.ToSlash(pattern))
	if !doublestar.ValidatePattern(slashed) {
		return nil, fmt.Errorf("invalid source pattern %q", pattern)
	}
	base, rest := doublestar.SplitPattern(slashed)

	root := fsys
	if base != "." {
		root = afero.NewBasePathFs(fsys, filepath.FromSlash(base))
	}
	matches, err := doublestar.Glob(afero.NewIOFS(root), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", pattern, err)
	}

	allowHidden := hasHiddenSegment(rest)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !allowHidden && hasHiddenSegment(m) {
			continue
		}
		out = append(out, filepath.FromSlash(path.Join(base, m)))
	}
	return out, nil
}

func hasHiddenSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}
