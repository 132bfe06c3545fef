package graph_test

import (
	"context"
	"testing"

	"github.com/aretw0/vantage/internal/presentation/graph"
	"github.com/aretw0/vantage/internal/runtime"
	"github.com/aretw0/vantage/pkg/adapters/memory"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sceneKinds(rec *memory.Recorder) graph.KindFunc {
	query := domain.LatestAtEnd(domain.LogTimeTimeline)
	return func(p domain.EntityPath) (domain.TransformKind, bool) {
		t, ok := rec.LatestAt(p, query)
		if !ok {
			return "", false
		}
		return t.Kind(), true
	}
}

func TestGenerateMermaid(t *testing.T) {
	ctx := context.Background()
	rec := memory.NewRecorder()
	require.NoError(t, rec.LogTimeless(ctx, "/world", domain.Translation3(1, 0, 0)))
	require.NoError(t, rec.LogTimeless(ctx, "/world/cam", domain.Pinhole{FocalLength: mgl64.Vec2{1, 1}}))
	require.NoError(t, rec.LogTimeless(ctx, "/world/lost-node", domain.Unknown{}))
	tree := rec.Tree()
	root, ok := tree.Subtree(domain.RootPath)
	require.True(t, ok)

	t.Run("Without Overlay", func(t *testing.T) {
		out := graph.GenerateMermaid(root, sceneKinds(rec), nil)

		for _, want := range []string{
			"graph TD\n",
			"e_[\"/\"]",
			"e_ -- \"rigid3\" --> e_world",
			"e_world_cam[/\"cam\"/]",
			"e_world -- \"pinhole\" --> e_world_cam",
			"e_world -. \"unknown\" .-> e_world_lost_node",
		} {
			assert.Contains(t, out, want)
		}
		assert.NotContains(t, out, "classDef")
	})

	t.Run("With Overlay", func(t *testing.T) {
		cache := runtime.NewBuilder().Build(runtime.Snapshot{Tree: tree, Transforms: rec},
			domain.LatestAtEnd(domain.LogTimeTimeline), "/world")
		out := graph.GenerateMermaid(root, sceneKinds(rec), graph.OverlayFromCache(cache))

		assert.Contains(t, out, "e_world((\"world\"))")
		assert.Contains(t, out, "class e_world reference;")
		assert.Contains(t, out, "class e_world_cam reachable;")
		assert.Contains(t, out, "class e_ reachable;")
		assert.Contains(t, out, "class e_world_lost_node unreachable;")
		assert.NotContains(t, out, "class e_world reachable;")
	})
}
