package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnreachableReason_Text(t *testing.T) {
	for _, reason := range []UnreachableReason{
		UnknownSpaceInfo,
		NestedPinholeCameras,
		InversePinholeCameraWithoutResolution,
		UnknownTransform,
	} {
		t.Run(reason.Tag(), func(t *testing.T) {
			assert.NotEmpty(t, reason.Message())

			text, err := reason.MarshalText()
			require.NoError(t, err)

			var decoded UnreachableReason
			require.NoError(t, decoded.UnmarshalText(text))
			assert.Equal(t, reason, decoded)
		})
	}

	var zero UnreachableReason
	_, err := zero.MarshalText()
	assert.Error(t, err)
}

func TestUnreachableReason_AsError(t *testing.T) {
	err := fmt.Errorf("resolving /world/cam: %w", NestedPinholeCameras)

	var reason UnreachableReason
	require.True(t, errors.As(err, &reason))
	assert.Equal(t, NestedPinholeCameras, reason)
	assert.Equal(t, "Can't display entities under nested pinhole cameras.", reason.Error())
}

func TestUnreachableReason_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]UnreachableReason{"reason": UnknownTransform})
	require.NoError(t, err)
	assert.JSONEq(t, `{"reason":"unknown_transform"}`, string(data))
}

func TestEntityPropertyMap_Defaults(t *testing.T) {
	var empty EntityPropertyMap
	assert.Equal(t, DefaultPinholeImagePlaneDistance, empty.PinholeImagePlaneDistance("/cam"))

	d := 3.5
	props := EntityPropertyMap{}
	props.Set("/cam", EntityProperties{PinholeImagePlaneDistance: &d})
	assert.Equal(t, 3.5, props.PinholeImagePlaneDistance("/cam"))
	assert.Equal(t, DefaultPinholeImagePlaneDistance, props.PinholeImagePlaneDistance("/other"))
}

func TestTimeConversions(t *testing.T) {
	assert.Equal(t, TimeInt(1_500_000_000), TimeFromSeconds(1.5))
	assert.InDelta(t, 1.5, TimeFromNanos(1_500_000_000).Seconds(), 1e-12)
	assert.NoError(t, NewSequenceTimeline("frame").Validate())
	assert.ErrorIs(t, Timeline{Name: "x", Type: "weird"}.Validate(), ErrUnknownTimeline)
	assert.Equal(t, "latest on frame", LatestAtEnd(NewSequenceTimeline("frame")).String())
}
