package msgsync

import (
	"sort"
	"strings"
)

// PluralSeparator splits a catalog key into its base phrase and plural category
// (e.g. "cat|one"). Source code always references the base phrase.
const PluralSeparator = "|"

// Catalog is the reference translation store: key -> translated text.
type Catalog map[string]string

// BaseKey returns key up to the first PluralSeparator.
func BaseKey(key string) string {
	if idx := strings.Index(key, PluralSeparator); idx >= 0 {
		return key[:idx]
	}
	return key
}

// BaseKeys returns the normalized key set of the catalog.
func (c Catalog) BaseKeys() KeySet {
	out := make(KeySet, len(c))
	for key := range c {
		out.Add(BaseKey(key))
	}
	return out
}

// Variants groups plural categories by base key. Bare keys map to an empty slice.
func (c Catalog) Variants() map[string][]string {
	out := make(map[string][]string)
	for key := range c {
		base := BaseKey(key)
		if _, ok := out[base]; !ok {
			out[base] = []string{}
		}
		if len(base) < len(key) {
			out[base] = append(out[base], key[len(base)+len(PluralSeparator):])
		}
	}
	for base := range out {
		sort.Strings(out[base])
	}
	return out
}

// AddIdentity inserts key with itself as placeholder translation. Existing entries
// are left alone; it reports whether the catalog changed.
func (c Catalog) AddIdentity(key string) bool {
	if _, exists := c[key]; exists {
		return false
	}
	c[key] = key
	return true
}

// RemoveBase deletes base and every plural variant of it, returning the stored
// keys that were deleted in sorted order.
func (c Catalog) RemoveBase(base string) []string {
	var removed []string
	prefix := base + PluralSeparator
	for key := range c {
		if key == base || strings.HasPrefix(key, prefix) {
			removed = append(removed, key)
		}
	}
	for _, key := range removed {
		delete(c, key)
	}
	sort.Strings(removed)
	return removed
}

// SortedKeys returns the stored keys in lexicographic order.
func (c Catalog) SortedKeys() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KeySet is a set of translation keys.
type KeySet map[string]struct{}

// NewKeySet builds a set from keys.
func NewKeySet(keys ...string) KeySet {
	out := make(KeySet, len(keys))
	for _, k := range keys {
		out.Add(k)
	}
	return out
}

// Add inserts key.
func (s KeySet) Add(key string) {
	s[key] = struct{}{}
}

// Has reports whether key is in s.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Merge adds every key of other to s.
func (s KeySet) Merge(other KeySet) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Minus returns the keys of s that are not in other.
func (s KeySet) Minus(other KeySet) KeySet {
	out := make(KeySet)
	for k := range s {
		if !other.Has(k) {
			out.Add(k)
		}
	}
	return out
}

// Equal reports whether both sets hold the same keys.
func (s KeySet) Equal(other KeySet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Sorted returns the keys in byte order.
func (s KeySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
