package restree

import rerrors "github.com/opmodel/resengine/internal/errors"

// nodeHandle indexes into the tree's node arena.
type nodeHandle int

const rootHandle nodeHandle = 0

// node is either a branch (Children populated, Resource nil) or a leaf
// (Resource set, no children). A node cannot be both.
type node struct {
	name     string
	children map[string]nodeHandle
	resource *Resource
}

// Tree is the hierarchical namespace of resources keyed by dotted path.
// It is an arena of nodes addressed by integer handle rather than a
// pointer tree, so it serialises trivially and rebuilds parent
// back-pointers are unnecessary — children are looked up by name through
// the owning node's map.
type Tree struct {
	nodes []node
}

// New constructs an empty tree with just a root branch.
func New() *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, node{children: make(map[string]nodeHandle)})
	return t
}

// Insert adds resource at id, creating intermediate branch nodes as
// needed. Fails with PathConflict if id collides with an existing leaf, or
// if inserting would require turning an existing leaf into a branch.
func (t *Tree) Insert(id ResourceId, resource Resource) error {
	if len(id.Components) == 0 {
		return rerrors.NewAt(rerrors.ErrPathConflict, "PathConflict", id.String(), "resource id must not be empty")
	}

	cur := rootHandle
	for i, comp := range id.Components {
		isLast := i == len(id.Components)-1
		n := &t.nodes[cur]

		if n.resource != nil {
			return rerrors.NewAt(rerrors.ErrPathConflict, "PathConflict", id.String(),
				"path segment is already a leaf resource")
		}

		child, exists := n.children[comp]
		if !exists {
			t.nodes = append(t.nodes, node{name: comp, children: make(map[string]nodeHandle)})
			child = nodeHandle(len(t.nodes) - 1)
			n.children[comp] = child
		}

		if isLast {
			leaf := &t.nodes[child]
			if len(leaf.children) > 0 {
				return rerrors.NewAt(rerrors.ErrPathConflict, "PathConflict", id.String(),
					"cannot turn an existing branch into a leaf resource")
			}
			if leaf.resource != nil {
				return rerrors.NewAt(rerrors.ErrPathConflict, "PathConflict", id.String(),
					"resource already exists at this path")
			}
			leaf.resource = &resource
			return nil
		}

		cur = child
	}
	return nil
}

// NodeKind classifies what a path resolves to.
type NodeKind int

const (
	KindNotFound NodeKind = iota
	KindLeaf
	KindBranch
)

// GetById reports whether id resolves to a leaf, a branch, or nothing.
func (t *Tree) GetById(id ResourceId) (NodeKind, *Resource) {
	h, ok := t.descend(id)
	if !ok {
		return KindNotFound, nil
	}
	n := &t.nodes[h]
	if n.resource != nil {
		return KindLeaf, n.resource
	}
	return KindBranch, nil
}

// GetResource returns the resource at id, or a NotFound error if the path
// is absent or names a branch instead of a leaf.
func (t *Tree) GetResource(id ResourceId) (*Resource, error) {
	kind, res := t.GetById(id)
	switch kind {
	case KindLeaf:
		return res, nil
	case KindBranch:
		return nil, rerrors.NewAt(rerrors.ErrNotFound, "NotFound", id.String(), "path names a branch, not a resource")
	default:
		return nil, rerrors.NewAt(rerrors.ErrNotFound, "NotFound", id.String(), "no resource at this path")
	}
}

// GetBranch reports whether id names a branch (including the root, for an
// empty id), returning its immediate child names.
func (t *Tree) GetBranch(id ResourceId) ([]string, error) {
	var h nodeHandle
	if len(id.Components) == 0 {
		h = rootHandle
	} else {
		var ok bool
		h, ok = t.descend(id)
		if !ok {
			return nil, rerrors.NewAt(rerrors.ErrNotFound, "NotFound", id.String(), "no node at this path")
		}
	}

	n := &t.nodes[h]
	if n.resource != nil {
		return nil, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidValue", id.String(), "path names a leaf, not a branch")
	}

	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	return names, nil
}

func (t *Tree) descend(id ResourceId) (nodeHandle, bool) {
	cur := rootHandle
	for _, comp := range id.Components {
		child, ok := t.nodes[cur].children[comp]
		if !ok {
			return 0, false
		}
		cur = child
	}
	return cur, true
}

// Walk visits every leaf resource in the tree in depth-first,
// lexicographic child order, calling fn with the resource's dotted id.
func (t *Tree) Walk(fn func(id string, resource *Resource)) {
	t.walk(rootHandle, nil, fn)
}

func (t *Tree) walk(h nodeHandle, prefix []string, fn func(id string, resource *Resource)) {
	n := &t.nodes[h]
	if n.resource != nil {
		fn((ResourceId{Components: prefix}).String(), n.resource)
		return
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sortStrings(names)
	for _, name := range names {
		t.walk(n.children[name], append(append([]string(nil), prefix...), name), fn)
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
