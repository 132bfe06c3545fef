package domain

import (
	"fmt"
	"strings"
)

const pathSeparator = "/"

// EntityPath identifies a node of the entity tree.
// Paths are kept in canonical form ("/world/camera", root is "/") so they can be
// compared and used as map keys directly.
type EntityPath string

// RootPath is the path of the tree root.
const RootPath EntityPath = pathSeparator

// NewEntityPath builds a path from its components.
func NewEntityPath(parts ...string) EntityPath {
	if len(parts) == 0 {
		return RootPath
	}
	return EntityPath(pathSeparator + strings.Join(parts, pathSeparator))
}

// ParseEntityPath parses a slash separated path. Leading and trailing slashes are optional.
func ParseEntityPath(s string) (EntityPath, error) {
	trimmed := strings.Trim(strings.TrimSpace(s), pathSeparator)
	if trimmed == "" {
		return RootPath, nil
	}
	parts := strings.Split(trimmed, pathSeparator)
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return "", fmt.Errorf("%w: empty component in %q", ErrInvalidPath, s)
		}
	}
	return NewEntityPath(parts...), nil
}

// MustParseEntityPath is like ParseEntityPath but panics on error.
// Intended for tests and static declarations.
func MustParseEntityPath(s string) EntityPath {
	p, err := ParseEntityPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// IsRoot reports whether p is the tree root.
func (p EntityPath) IsRoot() bool {
	return p == RootPath || p == ""
}

// Parts returns the path components. The root has none.
func (p EntityPath) Parts() []string {
	if p.IsRoot() {
		return nil
	}
	return strings.Split(strings.TrimPrefix(string(p), pathSeparator), pathSeparator)
}

// Len returns the number of components.
func (p EntityPath) Len() int {
	if p.IsRoot() {
		return 0
	}
	return strings.Count(string(p), pathSeparator)
}

// Name returns the last component, or "/" for the root.
func (p EntityPath) Name() string {
	if p.IsRoot() {
		return pathSeparator
	}
	return string(p[strings.LastIndex(string(p), pathSeparator)+1:])
}

// Parent returns the parent path. The root has no parent.
func (p EntityPath) Parent() (EntityPath, bool) {
	if p.IsRoot() {
		return "", false
	}
	i := strings.LastIndex(string(p), pathSeparator)
	if i <= 0 {
		return RootPath, true
	}
	return p[:i], true
}

// Join appends a single component.
func (p EntityPath) Join(part string) EntityPath {
	if p.IsRoot() {
		return NewEntityPath(part)
	}
	return p + EntityPath(pathSeparator+part)
}

// IsDescendantOf reports whether p lies strictly below ancestor.
func (p EntityPath) IsDescendantOf(ancestor EntityPath) bool {
	if p.IsRoot() {
		return false
	}
	if ancestor.IsRoot() {
		return true
	}
	return strings.HasPrefix(string(p), string(ancestor)+pathSeparator)
}

func (p EntityPath) String() string {
	if p == "" {
		return string(RootPath)
	}
	return string(p)
}
