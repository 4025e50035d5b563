package taxonomy

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalizer maps raw category labels onto the taxonomy's label shape.
type Normalizer struct {
	rules Rules
	roots map[string]struct{}
}

// NewNormalizer creates a Normalizer. The root labels are the values of
// rules.RootBySource.
func NewNormalizer(rules Rules) *Normalizer {
	roots := make(map[string]struct{}, len(rules.RootBySource))
	for _, root := range rules.RootBySource {
		roots[root] = struct{}{}
	}
	return &Normalizer{rules: rules, roots: roots}
}

// IsRoot reports whether label is a known root label.
func (n *Normalizer) IsRoot(label string) bool {
	_, ok := n.roots[norm.NFC.String(label)]
	return ok
}

// Canonical returns the mapped label for raw, or raw trimmed when the label
// map has no entry.
func (n *Normalizer) Canonical(raw string) string {
	if v, ok := n.rules.LabelMap[LookupKey(raw)]; ok {
		return v
	}
	return strings.TrimSpace(raw)
}

// Normalize maps labels to canonical labels and puts the root first. The root
// is the first label that is a root label, else the root for source. Without
// a root the mapped labels are returned in input order. With a root, the
// first sub-label that has a path override returns that override's path;
// later sub-labels are not consulted.
func (n *Normalizer) Normalize(labels []string, source string) []string {
	normalized := make([]string, 0, len(labels))
	root := ""
	for _, raw := range labels {
		label := n.Canonical(raw)
		normalized = append(normalized, label)
		if root == "" && n.IsRoot(label) {
			root = label
		}
	}

	if root == "" && source != "" {
		root = n.rules.RootBySource[LookupKey(source)]
	}
	if root == "" {
		return normalized
	}

	subs := make([]string, 0, len(normalized))
	for _, label := range normalized {
		if label != root {
			subs = append(subs, label)
		}
	}

	for _, sub := range subs {
		key := PathKey{Root: norm.NFC.String(root), Sub: norm.NFC.String(sub)}
		if path, ok := n.rules.PathOverrides[key]; ok {
			return append([]string(nil), path...)
		}
	}

	return append([]string{root}, subs...)
}
