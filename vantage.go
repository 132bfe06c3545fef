package vantage

import (
	"context"
	"errors"
	"log/slog"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/aretw0/vantage/internal/logging"
	"github.com/aretw0/vantage/internal/runtime"
	"github.com/aretw0/vantage/pkg/adapters/file"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Version of the library and CLI.
const Version = "0.1.0"

// TransformCache is the result of a resolution for one reference entity.
type TransformCache = runtime.TransformCache

// Unreachable pairs an entity with the reason it cannot be placed.
type Unreachable = runtime.Unreachable

// ErrNilSource is returned by New when the tree or transform source is missing.
var ErrNilSource = errors.New("vantage: tree and transform source are required")

// Resolver is the high-level entry point for the Vantage library.
// It wraps the internal builder and adds tracing, hooks and concurrent views.
type Resolver struct {
	tree       ports.EntityTree
	transforms ports.TransformSource
	properties ports.EntityProperties
	builder    *runtime.Builder
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	tracer     trace.Tracer
	maxViews   int
}

// Option defines a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithProperties supplies per-entity view configuration (pinhole image plane distance).
func WithProperties(props ports.EntityProperties) Option {
	return func(r *Resolver) {
		r.properties = props
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Resolver) {
		r.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithTracer sets the OpenTelemetry tracer. Defaults to the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = tracer
	}
}

// WithMaxConcurrentViews bounds ResolveViews. Defaults to GOMAXPROCS.
func WithMaxConcurrentViews(n int) Option {
	return func(r *Resolver) {
		r.maxViews = n
	}
}

// New creates a resolver reading from tree and transforms.
// Both are read concurrently by ResolveViews and must tolerate that.
func New(tree ports.EntityTree, transforms ports.TransformSource, opts ...Option) (*Resolver, error) {
	if tree == nil || transforms == nil {
		return nil, ErrNilSource
	}

	r := &Resolver{
		tree:       tree,
		transforms: transforms,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer("github.com/aretw0/vantage")
	}
	if r.maxViews <= 0 {
		r.maxViews = goruntime.GOMAXPROCS(0)
	}
	r.builder = runtime.NewBuilder(runtime.WithLogger(r.logger))
	return r, nil
}

// NewFromScene creates a resolver over a parsed scene file, using its properties.
// Options given here override the scene's properties.
func NewFromScene(scene *file.Scene, opts ...Option) (*Resolver, error) {
	return New(scene.Tree, scene.Recorder, append([]Option{WithProperties(scene.Properties)}, opts...)...)
}

// Tree returns the entity tree the resolver reads from.
func (r *Resolver) Tree() ports.EntityTree {
	return r.tree
}

// KindAt reports the kind of transform visible at path for query, if any.
func (r *Resolver) KindAt(path domain.EntityPath, query domain.LatestAtQuery) (domain.TransformKind, bool) {
	t, ok := r.transforms.LatestAt(path, query)
	if !ok || t == nil {
		return "", false
	}
	return t.Kind(), true
}

// Resolve builds the transform cache for reference at query.
// The only error is ctx being done before the build starts; unreachable
// entities are reported on the cache.
func (r *Resolver) Resolve(ctx context.Context, reference domain.EntityPath, query domain.LatestAtQuery) (*TransformCache, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "vantage.Resolve",
		trace.WithAttributes(
			attribute.String("vantage.reference", reference.String()),
			attribute.String("vantage.query", query.String()),
		),
	)
	defer span.End()

	event := &domain.BuildEvent{
		Timestamp: time.Now(),
		Reference: reference,
		Query:     query.String(),
	}
	if r.hooks.OnBuildStart != nil {
		r.hooks.OnBuildStart(ctx, event)
	}

	cache := r.builder.Build(runtime.Snapshot{
		Tree:       r.tree,
		Transforms: r.transforms,
		Properties: r.properties,
	}, query, reference)

	descendants := cache.UnreachableDescendants()
	event.Duration = time.Since(event.Timestamp)
	event.Reachable = cache.Len()
	event.UnreachableDescendants = len(descendants)
	parent, hasParent := cache.FirstUnreachableParent()
	if hasParent {
		event.FirstUnreachableParent = &parent.Path
	}

	span.SetAttributes(
		attribute.Int("vantage.reachable", event.Reachable),
		attribute.Int("vantage.unreachable_descendants", event.UnreachableDescendants),
		attribute.Bool("vantage.ascent_stopped", hasParent),
	)

	if r.hooks.OnBuildDone != nil {
		r.hooks.OnBuildDone(ctx, event)
	}
	if r.hooks.OnUnreachable != nil {
		for _, u := range descendants {
			r.hooks.OnUnreachable(ctx, &domain.UnreachableEvent{
				Reference: reference,
				Path:      u.Path,
				Reason:    u.Reason,
				Direction: domain.DirectionDescendant,
			})
		}
		if hasParent {
			r.hooks.OnUnreachable(ctx, &domain.UnreachableEvent{
				Reference: reference,
				Path:      parent.Path,
				Reason:    parent.Reason,
				Direction: domain.DirectionAncestor,
			})
		}
	}

	return cache, nil
}

// ResolveViews resolves several references at the same query concurrently.
func (r *Resolver) ResolveViews(ctx context.Context, references []domain.EntityPath, query domain.LatestAtQuery) (map[domain.EntityPath]*TransformCache, error) {
	var (
		mu     sync.Mutex
		caches = make(map[domain.EntityPath]*TransformCache, len(references))
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxViews)
	for _, ref := range references {
		g.Go(func() error {
			cache, err := r.Resolve(gCtx, ref, query)
			if err != nil {
				return err
			}
			mu.Lock()
			caches[ref] = cache
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return caches, nil
}
