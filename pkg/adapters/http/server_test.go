package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/vantage"
	"github.com/aretw0/vantage/internal/dto"
	vhttp "github.com/aretw0/vantage/pkg/adapters/http"
	"github.com/aretw0/vantage/pkg/adapters/file"
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
  /world/lost:
    timeless: {kind: unknown}
`

func newHandler(t *testing.T, opts ...vhttp.Option) http.Handler {
	t.Helper()
	s, err := file.Parse(context.Background(), []byte(scene))
	require.NoError(t, err)
	r, err := vantage.NewFromScene(s)
	require.NoError(t, err)
	return vhttp.NewHandler(r, s.Timeline, opts...)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := get(t, newHandler(t), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), vantage.Version)
}

func TestTransforms(t *testing.T) {
	h := newHandler(t)

	t.Run("latest", func(t *testing.T) {
		w := get(t, h, "/transforms?reference=/&timeline=frame")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var report dto.CacheReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "/", report.Reference)
		require.Len(t, report.Entities, 2)
		assert.Equal(t, [3]float64{2, 0, 0}, report.Entities[1].Translation)
		require.Len(t, report.UnreachableDescendants, 1)
		assert.Equal(t, "/world/lost", report.UnreachableDescendants[0].Path)
	})

	t.Run("at time with default timeline", func(t *testing.T) {
		w := get(t, h, "/transforms?reference=world&at=5")
		require.Equal(t, http.StatusOK, w.Code)

		var report dto.CacheReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "/world", report.Reference)
		assert.Equal(t, "frame@5", report.Query)
	})

	t.Run("bad requests", func(t *testing.T) {
		for _, target := range []string{
			"/transforms?reference=/a//b",
			"/transforms?timeline=nope",
			"/transforms?at=soon",
		} {
			w := get(t, h, target)
			assert.Equal(t, http.StatusBadRequest, w.Code, target)
		}
	})
}

func TestGraph(t *testing.T) {
	w := get(t, newHandler(t), "/graph?reference=/world")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "graph TD\n"))
	assert.Contains(t, body, "class e_world reference;")
	assert.Contains(t, body, "class e_world_lost unreachable;")
}

func TestMetricsMount(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("vantage_builds_total 1\n"))
	})

	w := get(t, newHandler(t, vhttp.WithMetricsHandler(metrics)), "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vantage_builds_total")

	w = get(t, newHandler(t), "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/transforms", nil)
	w := httptest.NewRecorder()
	newHandler(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
