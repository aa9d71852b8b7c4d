package obs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

type call struct {
	Op    string
	Index int
}

func (c call) String() string { return fmt.Sprintf("%s(%d)", c.Op, c.Index) }

// fakeSurface records every host call.
type fakeSurface struct {
	scenes      int
	transitions int
	calls       []call
	durations   map[int]int
	volumes     map[string]float64
	failOp      string
}

var errHostDown = errors.New("host down")

func newFake(scenes, transitions int) *fakeSurface {
	return &fakeSurface{
		scenes:      scenes,
		transitions: transitions,
		durations:   map[int]int{},
		volumes:     map[string]float64{},
	}
}

func (f *fakeSurface) record(op string, index int) error {
	if op == f.failOp {
		return errHostDown
	}
	f.calls = append(f.calls, call{op, index})
	return nil
}

func (f *fakeSurface) SceneCount(context.Context) (int, error)      { return f.scenes, nil }
func (f *fakeSurface) TransitionCount(context.Context) (int, error) { return f.transitions, nil }
func (f *fakeSurface) SetPreview(_ context.Context, i int) error    { return f.record("preview", i) }
func (f *fakeSurface) ExecuteTransition(_ context.Context, i int) error {
	return f.record("transition", i)
}
func (f *fakeSurface) StartRecording(context.Context) error { return f.record("start_recording", -1) }
func (f *fakeSurface) StopRecording(context.Context) error  { return f.record("stop_recording", -1) }
func (f *fakeSurface) StartStreaming(context.Context) error { return f.record("start_streaming", -1) }
func (f *fakeSurface) StopStreaming(context.Context) error  { return f.record("stop_streaming", -1) }

func (f *fakeSurface) SetTransitionDuration(_ context.Context, i, ms int) error {
	if err := f.record("duration", i); err != nil {
		return err
	}
	f.durations[i] = ms
	return nil
}

func (f *fakeSurface) SetSourceVolume(_ context.Context, name string, volume float64) error {
	if err := f.record("volume", -1); err != nil {
		return err
	}
	f.volumes[name] = volume
	return nil
}

// reportingSurface also reports the host's current selection.
type reportingSurface struct {
	*fakeSurface
	current State
	err     error
}

func (r *reportingSurface) Current(context.Context) (State, error) { return r.current, r.err }

// plainSurface hides the optional capabilities of the wrapped surface.
type plainSurface struct {
	ControlSurface
}

// panicSurface panics on every action.
type panicSurface struct {
	*fakeSurface
}

func (panicSurface) SetPreview(context.Context, int) error { panic("host exploded") }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
