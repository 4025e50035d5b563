package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/pkg/slug"
)

// IDPrefix starts every category id.
const IDPrefix = "cat:"

// Node is one entry of the category tree.
type Node struct {
	Label    string `json:"label"`
	URL      string `json:"url,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Slug returns the node's slug, possibly empty.
func (n Node) Slug() string {
	return slug.ForNode(n.Label, n.URL)
}

// Forest is the ordered list of taxonomy roots. It is never mutated after
// load.
type Forest []Node

type document struct {
	Taxonomy Forest `json:"taxonomy"`
}

// Load parses a taxonomy document of the form {"taxonomy": [...]}.
func Load(r io.Reader) (Forest, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	if doc.Taxonomy == nil {
		return Forest{}, nil
	}
	return doc.Taxonomy, nil
}

// LoadFile reads the taxonomy at path. A missing file yields an empty forest
// unless strict is set.
func LoadFile(path string, strict bool) (Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !strict {
			return Forest{}, nil
		}
		return nil, fmt.Errorf("open taxonomy %s: %w", path, err)
	}
	defer f.Close()

	forest, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy %s: %w", path, err)
	}
	return forest, nil
}

// CategoryID builds the id for a chain of non-empty slugs.
func CategoryID(slugs []string) string {
	return IDPrefix + strings.Join(slugs, "/")
}

// ListCategories flattens the forest in pre-order. A node without a slug adds
// no segment to its descendants' ids; a root without one gets the id "cat:".
func ListCategories(forest Forest) []domain.Category {
	out := make([]domain.Category, 0, len(forest))
	for _, root := range forest {
		out = appendCategories(out, root, nil, nil)
	}
	return out
}

func appendCategories(out []domain.Category, n Node, parentID *string, slugs []string) []domain.Category {
	s := n.Slug()
	path := slugs
	if s != "" {
		path = append(path[:len(path):len(path)], s)
	}
	id := CategoryID(path)

	c := domain.Category{
		ID:       id,
		Name:     n.Label,
		Slug:     s,
		ParentID: parentID,
	}
	if n.URL != "" {
		u := n.URL
		c.URL = &u
	}
	out = append(out, c)

	for _, child := range n.Children {
		out = appendCategories(out, child, &id, path)
	}
	return out
}

// FindChildByLabel returns the node among nodes whose label equals label,
// ignoring case. Only the given level is searched.
func FindChildByLabel(nodes []Node, label string) (*Node, bool) {
	for i := range nodes {
		if strings.EqualFold(nodes[i].Label, label) {
			return &nodes[i], true
		}
	}
	return nil, false
}
