package file

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/aretw0/vantage/internal/dto"
	"github.com/aretw0/vantage/pkg/adapters/memory"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/aretw0/vantage/pkg/ports"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the only scene file schema understood by this package.
const SupportedSchema = "v1"

// sceneFile mirrors the YAML layout.
type sceneFile struct {
	SchemaVersion string                `yaml:"schema_version"`
	Timelines     []domain.Timeline     `yaml:"timelines"`
	Entities      map[string]entitySpec `yaml:"entities"`
}

type entitySpec struct {
	Properties *domain.EntityProperties `yaml:"properties"`
	Timeless   map[string]any           `yaml:"timeless"`
	Log        []logSpec                `yaml:"log"`
}

type logSpec struct {
	Timeline  string         `yaml:"timeline"`
	At        *int64         `yaml:"at"`
	Seconds   *float64       `yaml:"seconds"`
	Transform map[string]any `yaml:"transform"`
}

// Entry is a single logged transform. Timeline is nil for timeless entries.
type Entry struct {
	Path      domain.EntityPath
	Timeline  *domain.Timeline
	At        domain.TimeInt
	Transform domain.Transform
}

// Scene is a parsed scene file.
type Scene struct {
	Timelines  []domain.Timeline
	Properties domain.EntityPropertyMap
	Entries    []Entry
	Tree       *memory.Tree
	Recorder   *memory.Recorder
}

// Load reads and parses a scene file.
func Load(ctx context.Context, path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	scene, err := Parse(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

// Parse decodes a scene document, checks schema_version and replays every
// entry into an in-memory recorder.
func Parse(ctx context.Context, raw []byte) (*Scene, error) {
	var doc sceneFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if doc.SchemaVersion == "" {
		doc.SchemaVersion = SupportedSchema
	}
	if doc.SchemaVersion != SupportedSchema {
		return nil, fmt.Errorf("%w: scene schema_version %q (want %q)", domain.ErrUnsupportedSchema, doc.SchemaVersion, SupportedSchema)
	}

	timelines := map[string]domain.Timeline{domain.LogTimeTimeline.Name: domain.LogTimeTimeline}
	for _, tl := range doc.Timelines {
		if err := tl.Validate(); err != nil {
			return nil, err
		}
		timelines[tl.Name] = tl
	}

	scene := &Scene{
		Timelines:  doc.Timelines,
		Properties: domain.EntityPropertyMap{},
		Tree:       memory.NewTree(),
		Recorder:   memory.NewRecorder(),
	}

	// Sorted so errors and entry order are deterministic.
	names := make([]string, 0, len(doc.Entities))
	for name := range doc.Entities {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := doc.Entities[name]
		path, err := domain.ParseEntityPath(name)
		if err != nil {
			return nil, err
		}
		scene.Tree.Insert(path)

		if spec.Properties != nil {
			scene.Properties.Set(path, *spec.Properties)
		}

		if spec.Timeless != nil {
			t, err := decodeTransform(spec.Timeless)
			if err != nil {
				return nil, fmt.Errorf("entity %s timeless: %w", path, err)
			}
			scene.Entries = append(scene.Entries, Entry{Path: path, Transform: t})
		}

		for i, l := range spec.Log {
			entry, err := parseLog(path, l, doc.Timelines, timelines)
			if err != nil {
				return nil, fmt.Errorf("entity %s log[%d]: %w", path, i, err)
			}
			scene.Entries = append(scene.Entries, entry)
		}
	}

	if err := scene.ReplayInto(ctx, scene.Recorder); err != nil {
		return nil, err
	}
	return scene, nil
}

func parseLog(path domain.EntityPath, l logSpec, declared []domain.Timeline, known map[string]domain.Timeline) (Entry, error) {
	var timeline domain.Timeline
	switch {
	case l.Timeline != "":
		tl, ok := known[l.Timeline]
		if !ok {
			return Entry{}, fmt.Errorf("%w: %q is not declared", domain.ErrUnknownTimeline, l.Timeline)
		}
		timeline = tl
	case len(declared) == 1:
		timeline = declared[0]
	default:
		return Entry{}, fmt.Errorf("%w: entry must name its timeline", domain.ErrUnknownTimeline)
	}

	var at domain.TimeInt
	switch {
	case l.At != nil && l.Seconds != nil:
		return Entry{}, fmt.Errorf("set either at or seconds, not both")
	case l.Seconds != nil:
		if timeline.Type != domain.TimeTypeTime {
			return Entry{}, fmt.Errorf("seconds used on %s timeline %q", timeline.Type, timeline.Name)
		}
		at = domain.TimeFromSeconds(*l.Seconds)
	case l.At != nil:
		at = domain.TimeInt(*l.At)
	default:
		return Entry{}, fmt.Errorf("entry needs at or seconds")
	}

	t, err := decodeTransform(l.Transform)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Path: path, Timeline: &timeline, At: at, Transform: t}, nil
}

func decodeTransform(raw map[string]any) (domain.Transform, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: missing transform", domain.ErrInvalidTransform)
	}
	rec, err := dto.DecodeTransformRecord(raw)
	if err != nil {
		return nil, err
	}
	return rec.ToDomain()
}

// ReplayInto logs every entry of the scene into rec, in file order.
func (s *Scene) ReplayInto(ctx context.Context, rec ports.TransformRecorder) error {
	for _, e := range s.Entries {
		var err error
		if e.Timeline == nil {
			err = rec.LogTimeless(ctx, e.Path, e.Transform)
		} else {
			err = rec.Log(ctx, e.Path, *e.Timeline, e.At, e.Transform)
		}
		if err != nil {
			return fmt.Errorf("failed to record %s: %w", e.Path, err)
		}
	}
	return nil
}

// Timeline returns a declared timeline by name. An empty name selects the only
// declared timeline, or log_time when none is declared.
func (s *Scene) Timeline(name string) (domain.Timeline, error) {
	if name == "" {
		switch len(s.Timelines) {
		case 0:
			return domain.LogTimeTimeline, nil
		case 1:
			return s.Timelines[0], nil
		default:
			return domain.Timeline{}, fmt.Errorf("%w: scene declares %d timelines, pick one", domain.ErrUnknownTimeline, len(s.Timelines))
		}
	}
	if name == domain.LogTimeTimeline.Name {
		return domain.LogTimeTimeline, nil
	}
	for _, tl := range s.Timelines {
		if tl.Name == name {
			return tl, nil
		}
	}
	return domain.Timeline{}, fmt.Errorf("%w: %q", domain.ErrUnknownTimeline, name)
}
