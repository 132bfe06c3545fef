package observability

import (
	"context"

	"github.com/aretw0/vantage/pkg/domain"
)

// Aggregate combines multiple hook sets into one. Callbacks run in argument order.
func Aggregate(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var starts, dones []func(context.Context, *domain.BuildEvent)
	var unreachables []func(context.Context, *domain.UnreachableEvent)
	for _, h := range hooks {
		if h.OnBuildStart != nil {
			starts = append(starts, h.OnBuildStart)
		}
		if h.OnBuildDone != nil {
			dones = append(dones, h.OnBuildDone)
		}
		if h.OnUnreachable != nil {
			unreachables = append(unreachables, h.OnUnreachable)
		}
	}

	var out domain.LifecycleHooks
	if len(starts) > 0 {
		out.OnBuildStart = func(ctx context.Context, e *domain.BuildEvent) {
			for _, fn := range starts {
				fn(ctx, e)
			}
		}
	}
	if len(dones) > 0 {
		out.OnBuildDone = func(ctx context.Context, e *domain.BuildEvent) {
			for _, fn := range dones {
				fn(ctx, e)
			}
		}
	}
	if len(unreachables) > 0 {
		out.OnUnreachable = func(ctx context.Context, e *domain.UnreachableEvent) {
			for _, fn := range unreachables {
				fn(ctx, e)
			}
		}
	}
	return out
}

// LoggingHooks logs every build and unreachable entity.
func LoggingHooks(logger Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuildDone: func(ctx context.Context, e *domain.BuildEvent) {
			logger.DebugContext(ctx, "transform cache built",
				"reference", e.Reference,
				"query", e.Query,
				"reachable", e.Reachable,
				"unreachable_descendants", e.UnreachableDescendants,
				"duration", e.Duration,
			)
		},
		OnUnreachable: func(ctx context.Context, e *domain.UnreachableEvent) {
			logger.DebugContext(ctx, "entity unreachable",
				"reference", e.Reference,
				"path", e.Path,
				"reason", e.Reason.Tag(),
				"direction", e.Direction,
			)
		},
	}
}

// Logger is the subset of *slog.Logger used by LoggingHooks.
type Logger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
}
