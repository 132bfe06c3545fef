package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/vantage/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTransformRecorderContract runs a suite of tests to verify that a TransformRecorder
// implementation adheres to the defined interface contract.
func RunTransformRecorderContract(t *testing.T, recorder TransformRecorder) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405")
	frame := domain.NewSequenceTimeline("frame-" + suffix)
	other := domain.NewTimeTimeline("sim-" + suffix)

	t.Run("Latest At", func(t *testing.T) {
		path := domain.NewEntityPath("contract", suffix, "latest")
		require.NoError(t, recorder.Log(ctx, path, frame, 0, domain.Translation3(1, 0, 0)))
		require.NoError(t, recorder.Log(ctx, path, frame, 10, domain.Translation3(2, 0, 0)))

		got, ok, err := recorder.Query(ctx, path, domain.NewLatestAtQuery(frame, 5))
		require.NoError(t, err)
		require.True(t, ok)
		assertTranslation(t, 1, got)

		got, ok, err = recorder.Query(ctx, path, domain.NewLatestAtQuery(frame, 10))
		require.NoError(t, err)
		require.True(t, ok)
		assertTranslation(t, 2, got)

		_, ok, err = recorder.Query(ctx, path, domain.NewLatestAtQuery(frame, -1))
		require.NoError(t, err)
		assert.False(t, ok, "nothing is visible before the first entry")

		_, ok, err = recorder.Query(ctx, path, domain.LatestAtEnd(other))
		require.NoError(t, err)
		assert.False(t, ok, "timelines are independent")
	})

	t.Run("Same Time Replaces", func(t *testing.T) {
		path := domain.NewEntityPath("contract", suffix, "replace")
		require.NoError(t, recorder.Log(ctx, path, frame, 3, domain.Translation3(1, 0, 0)))
		require.NoError(t, recorder.Log(ctx, path, frame, 3, domain.Unknown{}))

		got, ok, err := recorder.Query(ctx, path, domain.NewLatestAtQuery(frame, 3))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, domain.KindUnknown, got.Kind())
	})

	t.Run("Timeless Fallback", func(t *testing.T) {
		path := domain.NewEntityPath("contract", suffix, "timeless")
		require.NoError(t, recorder.LogTimeless(ctx, path, domain.Translation3(7, 0, 0)))
		require.NoError(t, recorder.Log(ctx, path, frame, 100, domain.Translation3(8, 0, 0)))

		got, ok, err := recorder.Query(ctx, path, domain.NewLatestAtQuery(frame, 50))
		require.NoError(t, err)
		require.True(t, ok)
		assertTranslation(t, 7, got)

		got, ok, err = recorder.Query(ctx, path, domain.NewLatestAtQuery(frame, 100))
		require.NoError(t, err)
		require.True(t, ok)
		assertTranslation(t, 8, got)

		got, ok, err = recorder.Query(ctx, path, domain.LatestAtEnd(other))
		require.NoError(t, err)
		require.True(t, ok)
		assertTranslation(t, 7, got)
	})

	t.Run("Pinhole Round Trip", func(t *testing.T) {
		path := domain.NewEntityPath("contract", suffix, "camera")
		res := mgl64.Vec2{640, 480}
		pinhole := domain.Pinhole{FocalLength: mgl64.Vec2{500, 500}, PrincipalPoint: mgl64.Vec2{320, 240}, Resolution: &res}
		require.NoError(t, recorder.Log(ctx, path, frame, 1, pinhole))

		got, ok, err := recorder.Query(ctx, path, domain.LatestAtEnd(frame))
		require.NoError(t, err)
		require.True(t, ok)
		loaded, isPinhole := got.(domain.Pinhole)
		require.True(t, isPinhole, "expected pinhole, got %T", got)
		assert.Equal(t, pinhole.FocalLength, loaded.FocalLength)
		assert.Equal(t, pinhole.PrincipalPoint, loaded.PrincipalPoint)
		require.NotNil(t, loaded.Resolution)
		assert.Equal(t, res, *loaded.Resolution)
	})

	t.Run("Paths", func(t *testing.T) {
		paths, err := recorder.Paths(ctx)
		require.NoError(t, err)
		assert.Contains(t, paths, domain.NewEntityPath("contract", suffix, "latest"))
		assert.Contains(t, paths, domain.NewEntityPath("contract", suffix, "timeless"))
	})
}

func assertTranslation(t *testing.T, wantX float64, got domain.Transform) {
	t.Helper()
	rigid, ok := got.(domain.Rigid3)
	require.True(t, ok, "expected rigid3, got %T", got)
	assert.InDelta(t, wantX, rigid.Translation.X(), 1e-9)
}
