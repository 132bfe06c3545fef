package dto_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/vantage/internal/dto"
	"github.com/aretw0/vantage/internal/runtime"
	"github.com/aretw0/vantage/pkg/adapters/memory"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheReport(t *testing.T) {
	ctx := context.Background()
	rec := memory.NewRecorder()
	require.NoError(t, rec.LogTimeless(ctx, "/a", domain.Translation3(1, 2, 3)))
	require.NoError(t, rec.LogTimeless(ctx, "/b", domain.Unknown{}))

	query := domain.LatestAtEnd(domain.LogTimeTimeline)
	cache := runtime.NewBuilder().Build(runtime.Snapshot{Tree: rec.Tree(), Transforms: rec}, query, domain.RootPath)

	report := dto.NewCacheReport(cache, query)

	assert.Equal(t, "/", report.Reference)
	assert.Equal(t, "latest on log_time", report.Query)
	require.Len(t, report.Entities, 2)
	assert.Equal(t, "/", report.Entities[0].Path)
	assert.Equal(t, "/a", report.Entities[1].Path)
	assert.Equal(t, [3]float64{1, 2, 3}, report.Entities[1].Translation)
	require.Len(t, report.UnreachableDescendants, 1)
	assert.Equal(t, "unknown_transform", report.UnreachableDescendants[0].Reason)
	assert.Nil(t, report.FirstUnreachableParent)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "first_unreachable_parent")
}
