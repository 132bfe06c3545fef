package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/vantage"
	"github.com/aretw0/vantage/internal/testutils"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scene = `timelines:
  - {name: frame, type: sequence}
entities:
  /world:
    log:
      - {at: 0, transform: {kind: rigid3, translation: [1, 0, 0]}}
      - {at: 10, transform: {kind: rigid3, translation: [2, 0, 0]}}
  /world/cam:
    timeless: {kind: pinhole, focal_length: [10]}
  /world/cam/cam2:
    timeless: {kind: pinhole, focal_length: [10]}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := testutils.ParseScene(t, scene)
	r, err := vantage.NewFromScene(s)
	require.NoError(t, err)
	return NewServer(r, s.Timeline)
}

func TestHandleResolve(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	report, err := s.handleResolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"reference": "/",
		"at":        float64(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "frame@5", report.Query)
	require.Len(t, report.UnreachableDescendants, 1)
	assert.Equal(t, "/world/cam/cam2", report.UnreachableDescendants[0].Path)
	assert.Equal(t, "nested_pinhole_cameras", report.UnreachableDescendants[0].Reason)

	var world [3]float64
	for _, e := range report.Entities {
		if e.Path == "/world" {
			world = e.Translation
		}
	}
	assert.Equal(t, [3]float64{1, 0, 0}, world)
}

func TestHandleResolve_BadArguments(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for name, args := range map[string]map[string]interface{}{
		"path":     {"reference": "a//b"},
		"timeline": {"timeline": "wall"},
		"at":       {"at": "later"},
		"at type":  {"at": true},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.handleResolve(ctx, mcp.CallToolRequest{}, args)
			assert.Error(t, err)
		})
	}
}

func TestEntities(t *testing.T) {
	s := newTestServer(t)
	paths := s.entities()
	require.Len(t, paths, 4)
	assert.Equal(t, "/", paths[0].String())
	assert.Equal(t, "/world/cam/cam2", paths[3].String())
}
