package ports

import "github.com/aretw0/vantage/pkg/domain"

// EntityNode is a node of an entity tree snapshot.
type EntityNode interface {
	Path() domain.EntityPath
	// Children returns the direct children. Order carries no meaning.
	Children() []EntityNode
}

// EntityTree gives read access to the entity hierarchy.
// The parent of a node is found through domain.EntityPath.Parent.
type EntityTree interface {
	// Subtree returns the node at path, or false if the tree has no such node.
	Subtree(path domain.EntityPath) (EntityNode, bool)
}
