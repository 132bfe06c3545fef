package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/vantage/pkg/adapters/memory"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecorder_Contract(t *testing.T) {
	ports.RunTransformRecorderContract(t, memory.NewRecorder())
}

func TestMemoryRecorder_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	rec := memory.NewRecorder()

	err := rec.Log(ctx, "/a", domain.Timeline{Name: "frame"}, 0, domain.Unknown{})
	assert.ErrorIs(t, err, domain.ErrUnknownTimeline)

	err = rec.Log(ctx, "/a", domain.NewSequenceTimeline("frame"), 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransform)
}

func TestMemoryRecorder_OutOfOrderLogging(t *testing.T) {
	ctx := context.Background()
	rec := memory.NewRecorder()
	frame := domain.NewSequenceTimeline("frame")

	for _, at := range []domain.TimeInt{30, 10, 20} {
		require.NoError(t, rec.Log(ctx, "/a", frame, at, domain.Translation3(float64(at), 0, 0)))
	}

	got, ok := rec.LatestAt("/a", domain.NewLatestAtQuery(frame, 25))
	require.True(t, ok)
	assert.Equal(t, 20.0, got.(domain.Rigid3).Translation.X())
}

func TestMemoryRecorder_Tree(t *testing.T) {
	ctx := context.Background()
	rec := memory.NewRecorder()
	require.NoError(t, rec.LogTimeless(ctx, "/world/camera", domain.Unknown{}))

	tree := rec.Tree()
	_, ok := tree.Subtree("/world")
	assert.True(t, ok)
}

func TestMemoryRecorder_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	rec := memory.NewRecorder()
	frame := domain.NewSequenceTimeline("frame")
	require.NoError(t, rec.Log(ctx, "/a", frame, 0, domain.Translation3(1, 0, 0)))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, ok := rec.LatestAt("/a", domain.LatestAtEnd(frame))
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}
