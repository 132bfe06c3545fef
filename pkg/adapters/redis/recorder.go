package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/vantage/internal/dto"
	"github.com/aretw0/vantage/pkg/adapters/memory"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Recorder implements ports.TransformRecorder using Redis.
//
// Every entity gets one sorted set per timeline. Members are "<time>|<json>"
// where <time> is a fixed width encoding of the signed time, so lexical order
// is time order and nanosecond timestamps keep full precision.
type Recorder struct {
	client *backend.Client
	prefix string
}

var _ ports.TransformRecorder = (*Recorder)(nil)

type Option func(*Recorder)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(r *Recorder) {
		r.prefix = prefix
	}
}

// New creates a new Redis recorder with options.
func New(address, password string, db int, opts ...Option) *Recorder {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis recorder from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Recorder {
	r := &Recorder{
		client: client,
		prefix: "vantage:",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (r *Recorder) Client() *backend.Client {
	return r.client
}

// Close closes the underlying client.
func (r *Recorder) Close() error {
	return r.client.Close()
}

func (r *Recorder) entitiesKey() string  { return r.prefix + "entities" }
func (r *Recorder) timelinesKey() string { return r.prefix + "timelines" }
func (r *Recorder) timelessKey() string  { return r.prefix + "timeless" }

func (r *Recorder) timelineKey(timeline string, path domain.EntityPath) string {
	return r.prefix + "tl:" + timeline + ":" + path.String()
}

// encodeTime maps a signed time onto a fixed width string with the same ordering.
func encodeTime(at domain.TimeInt) string {
	return fmt.Sprintf("%020d", uint64(at)^(1<<63))
}

// Log records a transform at a point in time, replacing any entry at the same time.
func (r *Recorder) Log(ctx context.Context, path domain.EntityPath, timeline domain.Timeline, at domain.TimeInt, transform domain.Transform) error {
	if err := timeline.Validate(); err != nil {
		return err
	}
	if transform == nil {
		return fmt.Errorf("%w: nil transform for %s", domain.ErrInvalidTransform, path)
	}

	data, err := json.Marshal(dto.LogRecord{At: int64(at), Transform: dto.FromDomain(transform)})
	if err != nil {
		return fmt.Errorf("failed to marshal transform: %w", err)
	}

	key := r.timelineKey(timeline.Name, path)
	prefix := encodeTime(at)

	pipe := r.client.TxPipeline()
	// '}' sorts right after '|', so this range covers exactly the members at this time.
	pipe.ZRemRangeByLex(ctx, key, "["+prefix+"|", "("+prefix+"}")
	pipe.ZAdd(ctx, key, backend.Z{Score: 0, Member: prefix + "|" + string(data)})
	pipe.SAdd(ctx, r.entitiesKey(), path.String())
	pipe.HSet(ctx, r.timelinesKey(), timeline.Name, string(timeline.Type))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to log to redis: %w", err)
	}
	return nil
}

// LogTimeless records a transform visible at all times.
func (r *Recorder) LogTimeless(ctx context.Context, path domain.EntityPath, transform domain.Transform) error {
	if transform == nil {
		return fmt.Errorf("%w: nil transform for %s", domain.ErrInvalidTransform, path)
	}
	data, err := json.Marshal(dto.FromDomain(transform))
	if err != nil {
		return fmt.Errorf("failed to marshal transform: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.timelessKey(), path.String(), string(data))
	pipe.SAdd(ctx, r.entitiesKey(), path.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to log to redis: %w", err)
	}
	return nil
}

// Query returns the latest entry at or before query.At, falling back to the timeless value.
func (r *Recorder) Query(ctx context.Context, path domain.EntityPath, query domain.LatestAtQuery) (domain.Transform, bool, error) {
	members, err := r.client.ZRevRangeByLex(ctx, r.timelineKey(query.Timeline.Name, path), &backend.ZRangeBy{
		Max:   "(" + encodeTime(query.At) + "}",
		Min:   "-",
		Count: 1,
	}).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to query redis: %w", err)
	}

	if len(members) > 0 {
		_, data, ok := strings.Cut(members[0], "|")
		if !ok {
			return nil, false, fmt.Errorf("malformed timeline entry for %s", path)
		}
		var rec dto.LogRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, false, fmt.Errorf("failed to unmarshal transform: %w", err)
		}
		t, err := rec.Transform.ToDomain()
		if err != nil {
			return nil, false, err
		}
		return t, true, nil
	}

	data, err := r.client.HGet(ctx, r.timelessKey(), path.String()).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query redis: %w", err)
	}
	var rec dto.TransformRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal transform: %w", err)
	}
	t, err := rec.ToDomain()
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// Paths lists every entity with logged data, sorted.
func (r *Recorder) Paths(ctx context.Context) ([]domain.EntityPath, error) {
	members, err := r.client.SMembers(ctx, r.entitiesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	paths := make([]domain.EntityPath, 0, len(members))
	for _, m := range members {
		p, err := domain.ParseEntityPath(m)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths, nil
}

// Timelines lists the timelines that have entries.
func (r *Recorder) Timelines(ctx context.Context) ([]domain.Timeline, error) {
	raw, err := r.client.HGetAll(ctx, r.timelinesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list timelines: %w", err)
	}
	timelines := make([]domain.Timeline, 0, len(raw))
	for name, typ := range raw {
		timelines = append(timelines, domain.Timeline{Name: name, Type: domain.TimeType(typ)})
	}
	sort.Slice(timelines, func(i, j int) bool { return timelines[i].Name < timelines[j].Name })
	return timelines, nil
}

// Snapshot resolves the query for every entity and materializes the result in memory,
// so a cache can be built without touching Redis.
func (r *Recorder) Snapshot(ctx context.Context, query domain.LatestAtQuery) (*memory.Recorder, *memory.Tree, error) {
	paths, err := r.Paths(ctx)
	if err != nil {
		return nil, nil, err
	}

	snapshot := memory.NewRecorder()
	tree := memory.NewTree()
	for _, path := range paths {
		tree.Insert(path)

		t, ok, err := r.Query(ctx, path, query)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}
		if err := snapshot.LogTimeless(ctx, path, t); err != nil {
			return nil, nil, err
		}
	}
	return snapshot, tree, nil
}
