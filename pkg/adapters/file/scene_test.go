package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/vantage/pkg/adapters/file"
	"github.com/aretw0/vantage/pkg/adapters/memory"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const robotScene = `schema_version: v1
timelines:
  - name: frame
    type: sequence
  - name: sim
    type: time
entities:
  /world:
    timeless: {kind: rigid3, translation: [0, 0, 1]}
  /world/camera:
    properties:
      pinhole_image_plane_distance: 2.5
    log:
      - timeline: frame
        at: 0
        transform: {kind: pinhole, focal_length: [500], resolution: [640, 480]}
  /world/robot:
    log:
      - timeline: frame
        at: 0
        transform: {kind: rigid3, translation: [1, 0, 0]}
      - timeline: frame
        at: 10
        transform: {kind: rigid3, translation: [2, 0, 0], rotation: [0, 0, 0, 1]}
      - timeline: sim
        seconds: 1.5
        transform: {kind: unknown}
  /world/robot/arm/gripper: {}
`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	scene, err := file.Load(ctx, writeScene(t, robotScene))
	require.NoError(t, err)

	assert.Len(t, scene.Timelines, 2)
	assert.Len(t, scene.Entries, 5)
	assert.Equal(t, 2.5, scene.Properties.PinholeImagePlaneDistance("/world/camera"))
	assert.Equal(t, domain.DefaultPinholeImagePlaneDistance, scene.Properties.PinholeImagePlaneDistance("/world/robot"))

	_, ok := scene.Tree.Subtree("/world/robot/arm")
	assert.True(t, ok, "intermediate entities are created")

	frame, err := scene.Timeline("frame")
	require.NoError(t, err)
	got, ok := scene.Recorder.LatestAt("/world/robot", domain.NewLatestAtQuery(frame, 5))
	require.True(t, ok)
	assert.Equal(t, 1.0, got.(domain.Rigid3).Translation.X())

	sim, err := scene.Timeline("sim")
	require.NoError(t, err)
	got, ok = scene.Recorder.LatestAt("/world/robot", domain.NewLatestAtQuery(sim, domain.TimeFromSeconds(2)))
	require.True(t, ok)
	assert.Equal(t, domain.KindUnknown, got.Kind())

	_, ok = scene.Recorder.LatestAt("/world", domain.LatestAtEnd(sim))
	assert.True(t, ok, "timeless values are visible on every timeline")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "schema",
			content: "schema_version: v2\n",
			wantErr: domain.ErrUnsupportedSchema,
		},
		{
			name:    "bad path",
			content: "entities:\n  world//cam: {}\n",
			wantErr: domain.ErrInvalidPath,
		},
		{
			name: "undeclared timeline",
			content: `entities:
  /a:
    log:
      - {timeline: frame, at: 0, transform: {kind: unknown}}
`,
			wantErr: domain.ErrUnknownTimeline,
		},
		{
			name: "bad transform kind",
			content: `entities:
  /a:
    timeless: {kind: shear}
`,
			wantErr: domain.ErrUnknownTransformKind,
		},
		{
			name: "bad timeline type",
			content: `timelines:
  - {name: frame, type: steps}
`,
			wantErr: domain.ErrUnknownTimeline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := file.Parse(context.Background(), []byte(tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_SingleTimelineIsDefault(t *testing.T) {
	scene, err := file.Parse(context.Background(), []byte(`timelines:
  - {name: frame, type: sequence}
entities:
  /a:
    log:
      - {at: 3, transform: {kind: rigid3, translation: [1, 2, 3]}}
`))
	require.NoError(t, err)

	tl, err := scene.Timeline("")
	require.NoError(t, err)
	assert.Equal(t, "frame", tl.Name)
	_, ok := scene.Recorder.LatestAt("/a", domain.NewLatestAtQuery(tl, 3))
	assert.True(t, ok)
}

func TestParse_SecondsNeedTimeTimeline(t *testing.T) {
	_, err := file.Parse(context.Background(), []byte(`timelines:
  - {name: frame, type: sequence}
entities:
  /a:
    log:
      - {seconds: 1.0, transform: {kind: unknown}}
`))
	assert.Error(t, err)
}

func TestScene_ReplayInto(t *testing.T) {
	ctx := context.Background()
	scene, err := file.Parse(ctx, []byte(robotScene))
	require.NoError(t, err)

	target := memory.NewRecorder()
	require.NoError(t, scene.ReplayInto(ctx, target))

	paths, err := target.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.EntityPath{"/world", "/world/camera", "/world/robot"}, paths)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := file.Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
