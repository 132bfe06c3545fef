package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EntityPath
		wantErr bool
	}{
		{name: "Root", input: "/", want: RootPath},
		{name: "Empty", input: "", want: RootPath},
		{name: "Leading Slash", input: "/world/camera", want: "/world/camera"},
		{name: "No Leading Slash", input: "world/camera", want: "/world/camera"},
		{name: "Trailing Slash", input: "world/camera/", want: "/world/camera"},
		{name: "Empty Component", input: "world//camera", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntityPath(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntityPath_Parent(t *testing.T) {
	parent, ok := NewEntityPath("world", "camera", "image").Parent()
	require.True(t, ok)
	assert.Equal(t, EntityPath("/world/camera"), parent)

	parent, ok = NewEntityPath("world").Parent()
	require.True(t, ok)
	assert.Equal(t, RootPath, parent)

	_, ok = RootPath.Parent()
	assert.False(t, ok, "root has no parent")
}

func TestEntityPath_Navigation(t *testing.T) {
	p := RootPath.Join("world").Join("camera")

	assert.Equal(t, EntityPath("/world/camera"), p)
	assert.Equal(t, []string{"world", "camera"}, p.Parts())
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, "camera", p.Name())
	assert.Equal(t, 0, RootPath.Len())
	assert.Nil(t, RootPath.Parts())

	assert.True(t, p.IsDescendantOf(RootPath))
	assert.True(t, p.IsDescendantOf("/world"))
	assert.False(t, p.IsDescendantOf(p))
	assert.False(t, EntityPath("/worldwide").IsDescendantOf("/world"))
	assert.False(t, RootPath.IsDescendantOf(RootPath))
}
