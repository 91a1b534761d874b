// Package plural knows which CLDR plural categories a language uses, so catalogs
// keyed as "phrase|category" can be checked for missing variants.
// Category names: "zero", "one", "two", "few", "many", "other".
package plural

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// All lists every CLDR category in canonical order.
var All = []string{"zero", "one", "two", "few", "many", "other"}

// sampleLimit is large enough for every rule in Form to produce each of its forms.
const sampleLimit = 200

// Base parses a BCP 47 tag (also accepting "_" separators) and returns its base
// language, e.g. "pt_BR" -> "pt".
func Base(lang string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", lang, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// Categories returns the plural categories the language distinguishes, in canonical
// order. Unknown languages only use "other".
func Categories(lang string) []string {
	used := make(map[string]bool)
	for n := 0; n <= sampleLimit; n++ {
		used[Form(lang, n)] = true
	}
	out := make([]string, 0, len(used))
	for _, c := range All {
		if used[c] {
			out = append(out, c)
		}
	}
	return out
}

// Missing returns the categories lang needs that have is lacking, sorted.
func Missing(lang string, have []string) []string {
	present := make(map[string]bool, len(have))
	for _, h := range have {
		present[h] = true
	}
	var out []string
	for _, c := range Categories(lang) {
		if !present[c] {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Known reports whether category is a CLDR plural category name.
func Known(category string) bool {
	for _, c := range All {
		if c == category {
			return true
		}
	}
	return false
}

// Form returns the CLDR plural form for the given language tag and count.
// Language tag is normalized to base (e.g. "en-US" -> "en"). Unknown languages default to "other".
func Form(lang string, count int) string {
	base := strings.ToLower(strings.TrimSpace(lang))
	if idx := strings.IndexAny(base, "-_"); idx > 0 {
		base = base[:idx]
	}
	n := count
	if n < 0 {
		n = -n
	}
	switch base {
	case "ar":
		return formArabic(n)
	case "ru", "uk", "be", "sr", "hr", "bs", "sh":
		return formRussian(n)
	case "pl":
		return formPolish(n)
	case "cy", "br", "ga", "gd", "gv", "kw", "mt", "sm", "ak":
		return formWelsh(n)
	case "he", "iw":
		return formHebrew(n)
	case "en", "es", "fr", "de", "it", "pt", "nl", "no", "sv", "da", "fi", "tr", "el", "ja", "ko", "zh", "th", "vi", "id", "hi":
		return formOneOther(n)
	default:
		return "other"
	}
}

func formOneOther(n int) string {
	if n == 1 {
		return "one"
	}
	return "other"
}

func formArabic(n int) string {
	if n == 0 {
		return "zero"
	}
	if n == 1 {
		return "one"
	}
	if n == 2 {
		return "two"
	}
	if n >= 3 && n <= 10 {
		return "few"
	}
	if n >= 11 && n <= 99 {
		return "many"
	}
	return "other"
}

func formRussian(n int) string {
	n10 := n % 10
	n100 := n % 100
	if n10 == 1 && n100 != 11 {
		return "one"
	}
	if n10 >= 2 && n10 <= 4 && (n100 < 12 || n100 > 14) {
		return "few"
	}
	if n10 == 0 || (n10 >= 5 && n10 <= 9) || (n100 >= 11 && n100 <= 14) {
		return "many"
	}
	return "other"
}

func formPolish(n int) string {
	if n == 1 {
		return "one"
	}
	n10 := n % 10
	n100 := n % 100
	if n10 >= 2 && n10 <= 4 && (n100 < 12 || n100 > 14) {
		return "few"
	}
	if n10 == 0 || (n10 >= 5 && n10 <= 9) || (n100 >= 12 && n100 <= 14) {
		return "many"
	}
	return "other"
}

func formWelsh(n int) string {
	if n == 0 {
		return "zero"
	}
	if n == 1 {
		return "one"
	}
	if n == 2 {
		return "two"
	}
	if n == 3 {
		return "few"
	}
	if n == 6 {
		return "many"
	}
	return "other"
}

func formHebrew(n int) string {
	if n == 1 {
		return "one"
	}
	if n == 2 {
		return "two"
	}
	if n >= 3 && n <= 10 {
		return "few"
	}
	if n >= 11 && n <= 99 {
		return "many"
	}
	return "other"
}
