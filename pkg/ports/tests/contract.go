package tests

import (
	"testing"

	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
)

// EntityTreeContractTest is a reusable test suite that verifies if an adapter complies with ports.EntityTree.
// The tree must contain every path in setupPaths (and therefore all of their ancestors).
func EntityTreeContractTest(t *testing.T, tree ports.EntityTree, setupPaths []domain.EntityPath) {
	t.Helper()

	t.Run("Subtree_Success", func(t *testing.T) {
		for _, path := range setupPaths {
			node, ok := tree.Subtree(path)
			if !ok {
				t.Fatalf("expected subtree at %s", path)
			}
			if node.Path() != path {
				t.Errorf("path mismatch: got %s, want %s", node.Path(), path)
			}
		}
	})

	t.Run("Subtree_NotFound", func(t *testing.T) {
		if _, ok := tree.Subtree("/non-existent-entity"); ok {
			t.Error("expected no subtree for non-existent entity")
		}
	})

	t.Run("Ancestors_Exist", func(t *testing.T) {
		for _, path := range setupPaths {
			for parent, ok := path.Parent(); ok; parent, ok = parent.Parent() {
				if _, found := tree.Subtree(parent); !found {
					t.Errorf("ancestor %s of %s missing", parent, path)
				}
			}
		}
	})

	t.Run("Children_Link_Back", func(t *testing.T) {
		root, ok := tree.Subtree(domain.RootPath)
		if !ok {
			t.Fatal("tree has no root")
		}
		var walk func(node ports.EntityNode)
		walk = func(node ports.EntityNode) {
			for _, child := range node.Children() {
				parent, _ := child.Path().Parent()
				if parent != node.Path() {
					t.Errorf("child %s listed under %s", child.Path(), node.Path())
				}
				walk(child)
			}
		}
		walk(root)
	})
}
