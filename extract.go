package msgsync

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultCallNames are the translation helpers recognized when none are configured:
// plain translate, pluralized translate and translate with markup.
var DefaultCallNames = []string{"_t", "_td", "_tJsx"}

// quoteChars may open a key literal. The closing quote must be the same character.
var quoteChars = []string{`"`, `'`, "`"}

// concatRegex finds a literal split in two by `+`, e.g. 'foo' +\n 'bar'. Removing the
// match joins both halves into a single literal.
var concatRegex = buildConcatRegex()

func buildConcatRegex() *regexp.Regexp {
	alts := make([]string, 0, len(quoteChars))
	for _, q := range quoteChars {
		alts = append(alts, q+`\s*[+]\s*`+q)
	}
	return regexp.MustCompile(strings.Join(alts, "|"))
}

// buildCallRegex matches name( <q>key<q> followed by `,` or `)`. Each quote character
// gets its own alternative and capture group.
func buildCallRegex(names []string) *regexp.Regexp {
	sorted := append([]string(nil), names...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, 0, len(sorted))
	for _, n := range sorted {
		quoted = append(quoted, regexp.QuoteMeta(n))
	}
	lits := make([]string, 0, len(quoteChars))
	for _, q := range quoteChars {
		lits = append(lits, q+`(.*?)`+q+`\s*[,)]`)
	}
	return regexp.MustCompile(`(?:` + strings.Join(quoted, "|") + `)\s*\(\s*(?:` + strings.Join(lits, "|") + `)`)
}

var unescaper = strings.NewReplacer(`\'`, `'`, `\"`, `"`)

// Extractor finds translation keys in source text.
type Extractor struct {
	fs     afero.Fs
	logger *zap.Logger
	calls  []string
	re     *regexp.Regexp
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithCallNames replaces DefaultCallNames. Empty input keeps the defaults.
func WithCallNames(names ...string) ExtractorOption {
	return func(e *Extractor) {
		var clean []string
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				clean = append(clean, n)
			}
		}
		if len(clean) > 0 {
			e.calls = clean
		}
	}
}

// WithExtractorLogger sets the logger for per-file debug entries.
func WithExtractorLogger(l *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor returns an extractor reading source files from fs.
func NewExtractor(fs afero.Fs, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		fs:     fs,
		logger: zap.NewNop(),
		calls:  DefaultCallNames,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.re = buildCallRegex(e.calls)
	return e
}

// CallNames returns the recognized call names.
func (e *Extractor) CallNames() []string {
	return append([]string(nil), e.calls...)
}

// Extract returns the keys referenced in content. Only the first argument of a call
// is looked at, and only when it is a single literal; computed keys are not seen.
func (e *Extractor) Extract(content string) KeySet {
	found := make(KeySet)
	e.extractInto(found, content)
	return found
}

func (e *Extractor) extractInto(found KeySet, content string) {
	content = concatRegex.ReplaceAllString(content, "")
	for _, m := range e.re.FindAllStringSubmatchIndex(content, -1) {
		// m[0:2] is the whole match; one pair per quote alternative follows and
		// exactly one of them took part.
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] < 0 {
				continue
			}
			found.Add(unescaper.Replace(content[m[g]:m[g+1]]))
			break
		}
	}
}

// ExtractFiles reads every path and returns the union of their keys. The first
// unreadable or non-UTF-8 file aborts the run with a *SourceError.
func (e *Extractor) ExtractFiles(paths []string) (KeySet, error) {
	found := make(KeySet)
	for _, path := range paths {
		data, err := afero.ReadFile(e.fs, path)
		if err != nil {
			return nil, newSourceError(path, err)
		}
		if !utf8.Valid(data) {
			return nil, newSourceError(path, ErrInvalidUTF8)
		}
		before := len(found)
		e.extractInto(found, string(data))
		e.logger.Debug("scanned source", zap.String("path", path), zap.Int("new_keys", len(found)-before))
	}
	e.logger.Debug("extraction done", zap.Int("files", len(paths)), zap.Int("keys", len(found)))
	return found, nil
}
