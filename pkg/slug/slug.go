package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

var germanReplacer = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	"é", "e", "è", "e", "à", "a", "ç", "c",
)

// Generate creates a URL-friendly slug from the given name.
// German umlauts are transliterated to their ASCII spelling.
//
// Examples:
//   - "Zubehör Helme" → "zubehoer-helme"
//   - "MX Stiefel Größe 44" → "mx-stiefel-groesse-44"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = germanReplacer.Replace(slug)
	slug = slugRegexp.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Truncate cuts s to at most n bytes without leaving a trailing hyphen.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimRight(s[:n], "-")
}

// LastSegment returns the last non-empty "/"-separated segment of a URL path,
// or "" when there is none.
func LastSegment(url string) string {
	parts := strings.Split(url, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return ""
}

// FromLabel is the slug of a taxonomy label without a url: lowercased, with
// spaces replaced by hyphens and nothing else touched.
func FromLabel(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "-")
}

// ForNode derives a taxonomy node slug. A node with a url takes its last
// non-empty segment, which may be empty (e.g. "/"); only a node without a url
// falls back to its label.
func ForNode(label, url string) string {
	if url != "" {
		return LastSegment(url)
	}
	return LastSegment(FromLabel(label))
}
