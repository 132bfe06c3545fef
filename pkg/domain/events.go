package domain

import (
	"context"
	"time"
)

// Direction tells whether an unreachable entity was found below or above the reference.
type Direction string

const (
	DirectionDescendant Direction = "descendant"
	DirectionAncestor   Direction = "ancestor"
)

// BuildEvent describes one transform cache build.
type BuildEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Reference EntityPath    `json:"reference"`
	Query     string        `json:"query"`
	Duration  time.Duration `json:"duration,omitempty"`

	// Populated on completion only.
	Reachable              int         `json:"reachable"`
	UnreachableDescendants int         `json:"unreachable_descendants"`
	FirstUnreachableParent *EntityPath `json:"first_unreachable_parent,omitempty"`
}

// UnreachableEvent reports a single unreachable entry of a finished build.
type UnreachableEvent struct {
	Reference EntityPath        `json:"reference"`
	Path      EntityPath        `json:"path"`
	Reason    UnreachableReason `json:"reason"`
	Direction Direction         `json:"direction"`
}

// LifecycleHooks defines callbacks for resolver observability.
type LifecycleHooks struct {
	OnBuildStart  func(context.Context, *BuildEvent)
	OnBuildDone   func(context.Context, *BuildEvent)
	OnUnreachable func(context.Context, *UnreachableEvent)
}
