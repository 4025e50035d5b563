package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// PathKey addresses a path override by root and sub label.
type PathKey struct {
	Root string
	Sub  string
}

// Rules are the mapping tables driving label normalization.
type Rules struct {
	// LabelMap maps a lookup key (see LookupKey) to a canonical label.
	LabelMap map[string]string
	// PathOverrides maps a (root, sub) pair of canonical labels to a full path.
	PathOverrides map[PathKey][]string
	// RootBySource maps a lookup key of a source hint to a root label.
	RootBySource map[string]string
}

type rulesDocument struct {
	LabelMap      map[string]string `yaml:"label_map"`
	RootBySource  map[string]string `yaml:"root_by_source"`
	PathOverrides []struct {
		Root string   `yaml:"root"`
		Sub  string   `yaml:"sub"`
		Path []string `yaml:"path"`
	} `yaml:"path_overrides"`
}

// LookupKey is the form labels and source hints take when used as map keys:
// NFC, trimmed, lowercased.
func LookupKey(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

func canonicalForm(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ParseRules decodes a YAML rules document.
func ParseRules(data []byte) (Rules, error) {
	var doc rulesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Rules{}, fmt.Errorf("decode taxonomy rules: %w", err)
	}

	rules := Rules{
		LabelMap:      make(map[string]string, len(doc.LabelMap)),
		PathOverrides: make(map[PathKey][]string, len(doc.PathOverrides)),
		RootBySource:  make(map[string]string, len(doc.RootBySource)),
	}
	for k, v := range doc.LabelMap {
		rules.LabelMap[LookupKey(k)] = canonicalForm(v)
	}
	for k, v := range doc.RootBySource {
		rules.RootBySource[LookupKey(k)] = canonicalForm(v)
	}
	for i, o := range doc.PathOverrides {
		key := PathKey{Root: canonicalForm(o.Root), Sub: canonicalForm(o.Sub)}
		if key.Root == "" || key.Sub == "" || len(o.Path) == 0 {
			return Rules{}, fmt.Errorf("path override %d: root, sub and path are required", i)
		}
		if _, dup := rules.PathOverrides[key]; dup {
			return Rules{}, fmt.Errorf("path override %d: duplicate pair (%s, %s)", i, key.Root, key.Sub)
		}
		path := make([]string, len(o.Path))
		for j, label := range o.Path {
			path[j] = canonicalForm(label)
		}
		rules.PathOverrides[key] = path
	}
	return rules, nil
}

// DefaultRules returns the built-in rules.
func DefaultRules() Rules {
	rules, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy rules: %v", err))
	}
	return rules
}

// LoadRules reads rules from path, or returns the built-in rules when path is
// empty.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read taxonomy rules %s: %w", path, err)
	}
	return ParseRules(data)
}
