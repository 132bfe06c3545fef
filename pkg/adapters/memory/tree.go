package memory

import (
	"sort"
	"sync"

	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
)

// Tree implements ports.EntityTree in memory.
// Inserting a path creates all of its missing ancestors. Safe for concurrent use.
type Tree struct {
	mu       sync.RWMutex
	children map[domain.EntityPath][]domain.EntityPath
}

var _ ports.EntityTree = (*Tree)(nil)

// NewTree creates a tree that only contains the root.
func NewTree(paths ...domain.EntityPath) *Tree {
	t := &Tree{
		children: map[domain.EntityPath][]domain.EntityPath{domain.RootPath: nil},
	}
	for _, p := range paths {
		t.Insert(p)
	}
	return t
}

// Insert adds path and its ancestors.
func (t *Tree) Insert(path domain.EntityPath) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for current := path; !current.IsRoot(); {
		if _, exists := t.children[current]; exists {
			return
		}
		t.children[current] = nil

		parent, _ := current.Parent()
		siblings := t.children[parent]
		i := sort.Search(len(siblings), func(i int) bool { return siblings[i] >= current })
		siblings = append(siblings, "")
		copy(siblings[i+1:], siblings[i:])
		siblings[i] = current
		t.children[parent] = siblings

		current = parent
	}
}

// Subtree returns a view of the node at path.
func (t *Tree) Subtree(path domain.EntityPath) (ports.EntityNode, bool) {
	if path == "" {
		path = domain.RootPath
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.children[path]; !ok {
		return nil, false
	}
	return Node{tree: t, path: path}, true
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.children)
}

// Node is a read-only view of a tree node.
type Node struct {
	tree *Tree
	path domain.EntityPath
}

// Path returns the node path.
func (n Node) Path() domain.EntityPath { return n.path }

// Children returns the direct children in lexical order.
func (n Node) Children() []ports.EntityNode {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()

	paths := n.tree.children[n.path]
	nodes := make([]ports.EntityNode, len(paths))
	for i, p := range paths {
		nodes[i] = Node{tree: n.tree, path: p}
	}
	return nodes
}
