package obs

import (
	"context"
	"errors"
)

// ErrUnsupported is returned when a route needs a host capability the
// ControlSurface does not implement.
var ErrUnsupported = errors.New("not supported by host")

// ControlSurface is the production-switching host. Indices are 0-based.
type ControlSurface interface {
	SceneCount(ctx context.Context) (int, error)
	TransitionCount(ctx context.Context) (int, error)
	SetPreview(ctx context.Context, index int) error
	ExecuteTransition(ctx context.Context, index int) error
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) error
	StartStreaming(ctx context.Context) error
	StopStreaming(ctx context.Context) error
}

// CurrentReporter is implemented by hosts that know their current preview
// scene and transition. The Sequencer seeds its state from it on first use.
type CurrentReporter interface {
	Current(ctx context.Context) (State, error)
}

// DurationSetter is implemented by hosts that support fixed transition durations.
type DurationSetter interface {
	SetTransitionDuration(ctx context.Context, index int, durationMS int) error
}

// VolumeSetter is implemented by hosts that can set an audio source's volume
// by name. Volume is a linear multiplier, 1 being unity gain.
type VolumeSetter interface {
	SetSourceVolume(ctx context.Context, name string, volume float64) error
}
