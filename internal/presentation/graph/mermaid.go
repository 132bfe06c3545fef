package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/vantage/internal/runtime"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
)

// GraphOverlay contains resolution results to visualize on the entity tree.
type GraphOverlay struct {
	Reference   domain.EntityPath
	Reachable   []domain.EntityPath
	Unreachable map[domain.EntityPath]domain.UnreachableReason
}

// OverlayFromCache collects the reachable and unreachable entities of a cache.
func OverlayFromCache(cache *runtime.TransformCache) *GraphOverlay {
	overlay := &GraphOverlay{
		Reference:   cache.ReferencePath(),
		Reachable:   cache.Entities(),
		Unreachable: make(map[domain.EntityPath]domain.UnreachableReason),
	}
	for _, u := range cache.UnreachableDescendants() {
		overlay.Unreachable[u.Path] = u.Reason
	}
	if u, ok := cache.FirstUnreachableParent(); ok {
		overlay.Unreachable[u.Path] = u.Reason
	}
	return overlay
}

// KindFunc reports the transform kind logged at an entity, if any.
type KindFunc func(domain.EntityPath) (domain.TransformKind, bool)

// GenerateMermaid produces a Mermaid flowchart of the entity tree below root.
// It applies semantic styling:
// - Reference: ((Circle))
// - Pinhole camera: [/Parallelogram/]
// - Default: [Rectangle]
// Edges into an entity carry the kind of the transform logged there.
// It also applies overlay styles (Reachable/Unreachable/Reference) if provided.
func GenerateMermaid(root ports.EntityNode, kinds KindFunc, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var reference domain.EntityPath
	if overlay != nil {
		reference = overlay.Reference
	}

	var walk func(node ports.EntityNode)
	walk = func(node ports.EntityNode) {
		path := node.Path()
		safeID := sanitizeMermaidID(path)
		kind, hasKind := lookupKind(kinds, path)

		opener, closer := "[", "]"
		switch {
		case overlay != nil && path == reference:
			opener, closer = "((", "))" // Circle
		case hasKind && kind == domain.KindPinhole:
			opener, closer = "[/", "/]" // Parallelogram (Camera)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, path.Name(), closer))

		for _, child := range node.Children() {
			childKind, childHasKind := lookupKind(kinds, child.Path())
			arrow := "-->"
			if childHasKind {
				switch childKind {
				case domain.KindUnknown:
					arrow = "-. \"unknown\" .->"
				default:
					arrow = fmt.Sprintf("-- \"%s\" -->", childKind)
				}
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, sanitizeMermaidID(child.Path())))
			walk(child)
		}
	}
	walk(root)

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef reachable fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef unreachable fill:#ffebee,stroke:#b71c1c,stroke-width:2px,stroke-dasharray:4,color:#000;\n")
		sb.WriteString("    classDef reference fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, p := range overlay.Reachable {
			if p == reference {
				continue
			}
			sb.WriteString(fmt.Sprintf("    class %s reachable;\n", sanitizeMermaidID(p)))
		}
		for _, p := range sortedPaths(overlay.Unreachable) {
			sb.WriteString(fmt.Sprintf("    class %s unreachable;\n", sanitizeMermaidID(p)))
		}
		sb.WriteString(fmt.Sprintf("    class %s reference;\n", sanitizeMermaidID(reference)))
	}

	return sb.String()
}

func lookupKind(kinds KindFunc, path domain.EntityPath) (domain.TransformKind, bool) {
	if kinds == nil {
		return "", false
	}
	return kinds(path)
}

func sortedPaths(m map[domain.EntityPath]domain.UnreachableReason) []domain.EntityPath {
	paths := make([]domain.EntityPath, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}

func sanitizeMermaidID(path domain.EntityPath) string {
	s := "e" + path.String()
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
