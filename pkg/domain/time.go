package domain

import (
	"fmt"
	"math"
)

// TimeType defines how values on a timeline are interpreted.
type TimeType string

const (
	// TimeTypeSequence timelines count discrete steps (e.g. frame numbers).
	TimeTypeSequence TimeType = "sequence"
	// TimeTypeTime timelines hold nanoseconds, either relative or since the unix epoch.
	TimeTypeTime TimeType = "time"
)

// Timeline is a named axis along which values are logged.
type Timeline struct {
	Name string   `json:"name" yaml:"name" mapstructure:"name"`
	Type TimeType `json:"type" yaml:"type" mapstructure:"type"`
}

// LogTimeTimeline is the built-in wall clock timeline every logged value is stamped on.
var LogTimeTimeline = Timeline{Name: "log_time", Type: TimeTypeTime}

// NewSequenceTimeline declares a sequence timeline.
func NewSequenceTimeline(name string) Timeline {
	return Timeline{Name: name, Type: TimeTypeSequence}
}

// NewTimeTimeline declares a time timeline.
func NewTimeTimeline(name string) Timeline {
	return Timeline{Name: name, Type: TimeTypeTime}
}

// Validate checks the timeline declaration.
func (t Timeline) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: timeline without name", ErrUnknownTimeline)
	}
	switch t.Type {
	case TimeTypeSequence, TimeTypeTime:
		return nil
	default:
		return fmt.Errorf("%w: timeline %q has type %q", ErrUnknownTimeline, t.Name, t.Type)
	}
}

// TimeInt is a point on a timeline: a sequence number or nanoseconds.
type TimeInt int64

const (
	TimeIntMin TimeInt = math.MinInt64
	TimeIntMax TimeInt = math.MaxInt64
)

// TimeFromSequence converts a sequence number.
func TimeFromSequence(seq int64) TimeInt { return TimeInt(seq) }

// TimeFromNanos converts nanoseconds.
func TimeFromNanos(nanos int64) TimeInt { return TimeInt(nanos) }

// TimeFromSeconds converts seconds to nanoseconds, rounding to the closest nanosecond.
func TimeFromSeconds(seconds float64) TimeInt {
	return TimeInt(math.Round(seconds * 1e9))
}

// Seconds interprets t as nanoseconds.
func (t TimeInt) Seconds() float64 {
	return float64(t) / 1e9
}

// LatestAtQuery selects, per entity, the latest value logged at or before At on Timeline.
type LatestAtQuery struct {
	Timeline Timeline
	At       TimeInt
}

// NewLatestAtQuery creates a query.
func NewLatestAtQuery(timeline Timeline, at TimeInt) LatestAtQuery {
	return LatestAtQuery{Timeline: timeline, At: at}
}

// LatestAtEnd selects the last value logged on the timeline.
func LatestAtEnd(timeline Timeline) LatestAtQuery {
	return LatestAtQuery{Timeline: timeline, At: TimeIntMax}
}

func (q LatestAtQuery) String() string {
	if q.At == TimeIntMax {
		return fmt.Sprintf("latest on %s", q.Timeline.Name)
	}
	return fmt.Sprintf("%s@%d", q.Timeline.Name, q.At)
}
