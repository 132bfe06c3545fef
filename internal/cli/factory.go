package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/vantage"
	"github.com/aretw0/vantage/internal/config"
	"github.com/aretw0/vantage/pkg/adapters/file"
	"github.com/aretw0/vantage/pkg/adapters/redis"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
)

// Sources a command can read a recording from.
const (
	SourceAuto  = ""
	SourceScene = "scene"
	SourceRedis = "redis"
)

// ErrNoSource is returned when neither a scene file nor a Redis address is configured.
var ErrNoSource = errors.New("no scene file or redis address configured")

// Options are the command line overrides applied on top of the config file.
type Options struct {
	ConfigPath string
	ScenePath  string
	Timeline   string
	RedisAddr  string
	Output     string
	LogLevel   string
	// Source forces SourceScene or SourceRedis.
	Source string
}

// Resolver is what commands and servers need from a resolution backend.
type Resolver interface {
	Resolve(ctx context.Context, reference domain.EntityPath, query domain.LatestAtQuery) (*vantage.TransformCache, error)
	Tree() ports.EntityTree
	KindAt(path domain.EntityPath, query domain.LatestAtQuery) (domain.TransformKind, bool)
}

// Env is the wired runtime of a CLI invocation.
type Env struct {
	Config config.Config
	Logger *slog.Logger
	Scene  *file.Scene
	Store  *redis.Recorder
	source string
}

// Setup loads configuration, applies flag overrides, and opens the configured sources.
func Setup(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.ScenePath != "" {
		cfg.Scene = opts.ScenePath
	}
	if opts.Timeline != "" {
		cfg.Timeline = opts.Timeline
	}
	if opts.RedisAddr != "" {
		cfg.Redis.Addr = opts.RedisAddr
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	env := &Env{Config: cfg, Logger: logger}
	if cfg.Scene != "" {
		scene, err := file.Load(ctx, cfg.Scene)
		if err != nil {
			return nil, err
		}
		env.Scene = scene
		logger.Debug("Scene loaded", "path", cfg.Scene, "entries", len(scene.Entries))
	}
	if cfg.Redis.Addr != "" {
		env.Store = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
	}

	switch opts.Source {
	case SourceScene:
		if env.Scene == nil {
			return nil, fmt.Errorf("%w: --source scene needs a scene file", ErrNoSource)
		}
	case SourceRedis:
		if env.Store == nil {
			return nil, fmt.Errorf("%w: --source redis needs a redis address", ErrNoSource)
		}
	case SourceAuto:
		switch {
		case env.Scene != nil:
			opts.Source = SourceScene
		case env.Store != nil:
			opts.Source = SourceRedis
		default:
			return nil, ErrNoSource
		}
	default:
		return nil, fmt.Errorf("unknown source %q (want scene or redis)", opts.Source)
	}
	env.source = opts.Source
	return env, nil
}

// Close releases the Redis connection, if any.
func (e *Env) Close() error {
	if e.Store != nil {
		return e.Store.Close()
	}
	return nil
}

// Source returns the selected source.
func (e *Env) Source() string {
	return e.source
}

// Timeline resolves a timeline name. An empty name falls back to the configured timeline.
func (e *Env) Timeline(name string) (domain.Timeline, error) {
	if name == "" {
		name = e.Config.Timeline
	}
	if e.source == SourceScene {
		return e.Scene.Timeline(name)
	}

	if name == domain.LogTimeTimeline.Name {
		return domain.LogTimeTimeline, nil
	}
	timelines, err := e.Store.Timelines(context.Background())
	if err != nil {
		return domain.Timeline{}, err
	}
	if name == "" {
		switch len(timelines) {
		case 0:
			return domain.LogTimeTimeline, nil
		case 1:
			return timelines[0], nil
		default:
			return domain.Timeline{}, fmt.Errorf("%w: recording has %d timelines, pick one", domain.ErrUnknownTimeline, len(timelines))
		}
	}
	for _, tl := range timelines {
		if tl.Name == name {
			return tl, nil
		}
	}
	return domain.Timeline{}, fmt.Errorf("%w: %q", domain.ErrUnknownTimeline, name)
}

// NewResolver creates a resolver over the selected source.
// The logger is always attached; opts can add hooks or a tracer.
func (e *Env) NewResolver(opts ...vantage.Option) (Resolver, error) {
	opts = append([]vantage.Option{vantage.WithLogger(e.Logger)}, opts...)
	if e.source == SourceScene {
		return vantage.NewFromScene(e.Scene, opts...)
	}

	var properties ports.EntityProperties
	if e.Scene != nil {
		properties = e.Scene.Properties
	}
	return newLiveResolver(e.Store, properties, e.Logger, opts...), nil
}
