package taxonomy

// Resolver turns a label path into category ids by walking the forest.
type Resolver struct {
	forest Forest
}

// NewResolver creates a Resolver over forest.
func NewResolver(forest Forest) *Resolver {
	return &Resolver{forest: forest}
}

// Resolve walks the forest one level per label and returns the id of every
// matched node. It stops at the first label without a match, so the result
// may cover only a prefix of labels and is empty when the first label is
// unknown.
func (r *Resolver) Resolve(labels []string) []string {
	var (
		ids   []string
		slugs []string
		nodes = []Node(r.forest)
	)
	for _, label := range labels {
		node, ok := FindChildByLabel(nodes, label)
		if !ok {
			break
		}
		if s := node.Slug(); s != "" {
			slugs = append(slugs, s)
		}
		ids = append(ids, CategoryID(slugs))
		nodes = node.Children
	}
	return ids
}
