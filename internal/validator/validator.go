package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/vantage"
	"github.com/aretw0/vantage/pkg/adapters/file"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
)

// Issue is a problem found in a scene.
type Issue struct {
	Path     domain.EntityPath
	Timeline string
	Message  string
}

func (i Issue) String() string {
	if i.Timeline == "" {
		return fmt.Sprintf("%s: %s", i.Path, i.Message)
	}
	return fmt.Sprintf("%s (latest on %s): %s", i.Path, i.Timeline, i.Message)
}

// Inspect crawls the scene from the root and reports entities the root cannot
// place at the end of each timeline, plus properties that have no effect.
func Inspect(ctx context.Context, scene *file.Scene) ([]Issue, error) {
	resolver, err := vantage.NewFromScene(scene)
	if err != nil {
		return nil, err
	}

	timelines := scene.Timelines
	if len(timelines) == 0 {
		timelines = []domain.Timeline{domain.LogTimeTimeline}
	}

	var issues []Issue
	for _, tl := range timelines {
		cache, err := resolver.Resolve(ctx, domain.RootPath, domain.LatestAtEnd(tl))
		if err != nil {
			return nil, err
		}
		for _, u := range cache.UnreachableDescendants() {
			issues = append(issues, Issue{Path: u.Path, Timeline: tl.Name, Message: u.Reason.Message()})
		}
	}

	// Crawler
	pinholes := map[domain.EntityPath]bool{}
	for _, e := range scene.Entries {
		if e.Transform.Kind() == domain.KindPinhole {
			pinholes[e.Path] = true
		}
	}
	root, ok := scene.Tree.Subtree(domain.RootPath)
	if !ok {
		return issues, nil
	}
	queue := []ports.EntityNode{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		path := current.Path()
		if props := scene.Properties.Get(path); props.PinholeImagePlaneDistance != nil {
			if !pinholes[path] {
				issues = append(issues, Issue{Path: path, Message: "pinhole_image_plane_distance is set but no pinhole is logged here"})
			}
			if *props.PinholeImagePlaneDistance <= 0 {
				issues = append(issues, Issue{Path: path, Message: "pinhole_image_plane_distance must be positive"})
			}
		}
		queue = append(queue, current.Children()...)
	}
	return issues, nil
}

// ValidateScene returns an error listing every issue Inspect finds.
func ValidateScene(ctx context.Context, scene *file.Scene) error {
	issues, err := Inspect(ctx, scene)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		return nil
	}

	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(issues), strings.Join(lines, "\n- "))
}
