package runtime

import (
	"testing"

	"github.com/aretw0/vantage/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource map[domain.EntityPath]domain.Transform

func (s staticSource) LatestAt(path domain.EntityPath, _ domain.LatestAtQuery) (domain.Transform, bool) {
	t, ok := s[path]
	return t, ok
}

func TestResolveTransform(t *testing.T) {
	source := staticSource{
		"/rigid":   domain.Translation3(1, 2, 3),
		"/unknown": domain.Unknown{},
		"/pinhole": domain.Pinhole{FocalLength: mgl64.Vec2{2, 4}, PrincipalPoint: mgl64.Vec2{1, 1}},
	}
	query := domain.LatestAtEnd(frame)
	fixed := func(domain.EntityPath) float64 { return 2 }

	t.Run("absent", func(t *testing.T) {
		pinhole := false
		m, logged, err := resolveTransform("/none", source, query, fixed, &pinhole)
		require.NoError(t, err)
		assert.False(t, logged)
		assert.Equal(t, mgl64.Ident4(), m)
	})

	t.Run("rigid", func(t *testing.T) {
		pinhole := false
		m, logged, err := resolveTransform("/rigid", source, query, fixed, &pinhole)
		require.NoError(t, err)
		assert.True(t, logged)
		assert.Equal(t, mgl64.Translate3D(1, 2, 3), m)
		assert.False(t, pinhole)
	})

	t.Run("unknown", func(t *testing.T) {
		pinhole := false
		_, _, err := resolveTransform("/unknown", source, query, fixed, &pinhole)
		assert.ErrorIs(t, err, domain.UnknownTransform)
	})

	t.Run("pinhole sets flag", func(t *testing.T) {
		pinhole := false
		m, logged, err := resolveTransform("/pinhole", source, query, fixed, &pinhole)
		require.NoError(t, err)
		assert.True(t, logged)
		assert.True(t, pinhole)

		// scale = 2/f = (1, 0.5); depth = 2/(1+2)
		want := mgl64.Translate3D(-1, -0.5, 2).Mul4(mgl64.Scale3D(1, 0.5, 2.0/3.0))
		assert.True(t, want.ApproxEqualThreshold(m, 1e-12))
	})

	t.Run("second pinhole", func(t *testing.T) {
		pinhole := true
		_, _, err := resolveTransform("/pinhole", source, query, fixed, &pinhole)
		assert.ErrorIs(t, err, domain.NestedPinholeCameras)
	})
}
