package domain

import "errors"

// ErrInvalidPath is returned when an entity path cannot be parsed.
var ErrInvalidPath = errors.New("invalid entity path")

// ErrUnknownTransformKind is returned when a transform record names a kind that does not exist.
var ErrUnknownTransformKind = errors.New("unknown transform kind")

// ErrInvalidTransform is returned when a transform record is malformed.
var ErrInvalidTransform = errors.New("invalid transform")

// ErrUnknownTimeline is returned when a query or log entry names a timeline that was never declared.
var ErrUnknownTimeline = errors.New("unknown timeline")

// ErrUnsupportedSchema is returned when a scene document declares a schema version we cannot read.
var ErrUnsupportedSchema = errors.New("unsupported schema version")
