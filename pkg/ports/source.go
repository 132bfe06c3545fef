package ports

import (
	"context"

	"github.com/aretw0/vantage/pkg/domain"
)

// TransformSource answers latest-at lookups while a cache is being built.
// Implementations must be in-memory and side-effect free; the builder calls
// it once per visited entity.
type TransformSource interface {
	// LatestAt returns the value visible at the query, or false if none was logged.
	LatestAt(path domain.EntityPath, query domain.LatestAtQuery) (domain.Transform, bool)
}

// EntityProperties supplies per-entity view configuration.
type EntityProperties interface {
	PinholeImagePlaneDistance(path domain.EntityPath) float64
}

// TransformRecorder is the history backend transforms are logged into.
// Unlike TransformSource it may perform I/O.
type TransformRecorder interface {
	// Log records a transform at a time on a timeline.
	// Logging twice at the same time replaces the earlier value.
	Log(ctx context.Context, path domain.EntityPath, timeline domain.Timeline, at domain.TimeInt, transform domain.Transform) error

	// LogTimeless records a transform visible at every time on every timeline
	// unless a timeline entry at or before the queried time shadows it.
	LogTimeless(ctx context.Context, path domain.EntityPath, transform domain.Transform) error

	// Query performs a latest-at lookup.
	Query(ctx context.Context, path domain.EntityPath, query domain.LatestAtQuery) (domain.Transform, bool, error)

	// Paths lists every entity that has something logged.
	Paths(ctx context.Context) ([]domain.EntityPath, error)
}
