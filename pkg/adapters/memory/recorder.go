package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
)

type entry struct {
	at        domain.TimeInt
	transform domain.Transform
}

// Recorder is an in-memory, time-indexed transform history.
// It implements both ports.TransformRecorder and ports.TransformSource.
// Safe for concurrent use.
type Recorder struct {
	mu       sync.RWMutex
	timeless map[domain.EntityPath]domain.Transform
	// timeline name -> entity -> entries sorted by time
	timelines map[string]map[domain.EntityPath][]entry
	paths     map[domain.EntityPath]struct{}
}

var (
	_ ports.TransformRecorder = (*Recorder)(nil)
	_ ports.TransformSource   = (*Recorder)(nil)
)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		timeless:  make(map[domain.EntityPath]domain.Transform),
		timelines: make(map[string]map[domain.EntityPath][]entry),
		paths:     make(map[domain.EntityPath]struct{}),
	}
}

// Log records a transform at a point in time.
func (r *Recorder) Log(ctx context.Context, path domain.EntityPath, timeline domain.Timeline, at domain.TimeInt, transform domain.Transform) error {
	if err := timeline.Validate(); err != nil {
		return err
	}
	if transform == nil {
		return fmt.Errorf("%w: nil transform for %s", domain.ErrInvalidTransform, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	perEntity, ok := r.timelines[timeline.Name]
	if !ok {
		perEntity = make(map[domain.EntityPath][]entry)
		r.timelines[timeline.Name] = perEntity
	}

	entries := perEntity[path]
	i := sort.Search(len(entries), func(i int) bool { return entries[i].at >= at })
	if i < len(entries) && entries[i].at == at {
		entries[i].transform = transform
	} else {
		entries = append(entries, entry{})
		copy(entries[i+1:], entries[i:])
		entries[i] = entry{at: at, transform: transform}
	}
	perEntity[path] = entries
	r.paths[path] = struct{}{}
	return nil
}

// LogTimeless records a transform that is visible at all times.
func (r *Recorder) LogTimeless(ctx context.Context, path domain.EntityPath, transform domain.Transform) error {
	if transform == nil {
		return fmt.Errorf("%w: nil transform for %s", domain.ErrInvalidTransform, path)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeless[path] = transform
	r.paths[path] = struct{}{}
	return nil
}

// Query performs a latest-at lookup. It never fails.
func (r *Recorder) Query(ctx context.Context, path domain.EntityPath, query domain.LatestAtQuery) (domain.Transform, bool, error) {
	t, ok := r.LatestAt(path, query)
	return t, ok, nil
}

// LatestAt returns the latest entry at or before query.At, falling back to the timeless value.
func (r *Recorder) LatestAt(path domain.EntityPath, query domain.LatestAtQuery) (domain.Transform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.timelines[query.Timeline.Name][path]
	// first entry strictly after the query time
	i := sort.Search(len(entries), func(i int) bool { return entries[i].at > query.At })
	if i > 0 {
		return entries[i-1].transform, true
	}

	t, ok := r.timeless[path]
	return t, ok
}

// Paths lists every entity with logged data, sorted.
func (r *Recorder) Paths(ctx context.Context) ([]domain.EntityPath, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]domain.EntityPath, 0, len(r.paths))
	for p := range r.paths {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths, nil
}

// Tree builds an entity tree containing every logged path.
func (r *Recorder) Tree() *Tree {
	paths, _ := r.Paths(context.Background())
	return NewTree(paths...)
}
