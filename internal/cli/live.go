package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/vantage"
	"github.com/aretw0/vantage/pkg/adapters/memory"
	"github.com/aretw0/vantage/pkg/adapters/redis"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
)

// liveResolver resolves against a Redis recording. Every Resolve takes a
// fresh snapshot, so entries logged while serving are picked up.
type liveResolver struct {
	store  *redis.Recorder
	logger *slog.Logger
	opts   []vantage.Option
}

func newLiveResolver(store *redis.Recorder, properties ports.EntityProperties, logger *slog.Logger, opts ...vantage.Option) *liveResolver {
	if properties != nil {
		opts = append([]vantage.Option{vantage.WithProperties(properties)}, opts...)
	}
	return &liveResolver{store: store, logger: logger, opts: opts}
}

func (l *liveResolver) Resolve(ctx context.Context, reference domain.EntityPath, query domain.LatestAtQuery) (*vantage.TransformCache, error) {
	snapshot, tree, err := l.store.Snapshot(ctx, query)
	if err != nil {
		return nil, err
	}
	r, err := vantage.New(tree, snapshot, l.opts...)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, reference, query)
}

func (l *liveResolver) Tree() ports.EntityTree {
	tree := memory.NewTree()
	paths, err := l.store.Paths(context.Background())
	if err != nil {
		l.logger.Error("Failed to list entities", "error", err)
		return tree
	}
	for _, p := range paths {
		tree.Insert(p)
	}
	return tree
}

func (l *liveResolver) KindAt(path domain.EntityPath, query domain.LatestAtQuery) (domain.TransformKind, bool) {
	t, ok, err := l.store.Query(context.Background(), path, query)
	if err != nil {
		l.logger.Error("Failed to query transform", "path", path, "error", err)
		return "", false
	}
	if !ok || t == nil {
		return "", false
	}
	return t.Kind(), true
}
