// Package console provides a dry-run host that logs every call.
package console

import (
	"context"
	"log/slog"
	"sync"

	"github.com/chabad360/obs-osc/obs"
)

// Surface is an obs.ControlSurface with fixed-size scene and transition lists.
type Surface struct {
	scenes      int
	transitions int
	logger      *slog.Logger

	mu        sync.Mutex
	preview   int
	program   int
	current   int
	durations map[int]int
	volumes   map[string]float64
	recording bool
	streaming bool
}

var (
	_ obs.ControlSurface  = (*Surface)(nil)
	_ obs.CurrentReporter = (*Surface)(nil)
	_ obs.DurationSetter  = (*Surface)(nil)
	_ obs.VolumeSetter    = (*Surface)(nil)
)

// New returns a Surface with the given list sizes.
func New(scenes, transitions int, logger *slog.Logger) *Surface {
	return &Surface{
		scenes:      scenes,
		transitions: transitions,
		logger:      logger,
		durations:   make(map[int]int),
		volumes:     make(map[string]float64),
	}
}

func (s *Surface) SceneCount(context.Context) (int, error)      { return s.scenes, nil }
func (s *Surface) TransitionCount(context.Context) (int, error) { return s.transitions, nil }

func (s *Surface) Current(context.Context) (obs.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return obs.State{Preview: s.preview, Transition: s.current}, nil
}

func (s *Surface) SetPreview(_ context.Context, index int) error {
	s.mu.Lock()
	s.preview = index
	s.mu.Unlock()
	s.logger.Info("host: set preview", "scene", index)
	return nil
}

// ExecuteTransition moves the preview scene to program.
func (s *Surface) ExecuteTransition(_ context.Context, index int) error {
	s.mu.Lock()
	s.current = index
	s.program = s.preview
	program := s.program
	ms, fixed := s.durations[index]
	s.mu.Unlock()
	if fixed {
		s.logger.Info("host: execute transition", "transition", index, "program", program, "duration_ms", ms)
	} else {
		s.logger.Info("host: execute transition", "transition", index, "program", program)
	}
	return nil
}

func (s *Surface) SetTransitionDuration(_ context.Context, index, durationMS int) error {
	s.mu.Lock()
	s.durations[index] = durationMS
	s.mu.Unlock()
	s.logger.Info("host: set transition duration", "transition", index, "duration_ms", durationMS)
	return nil
}

func (s *Surface) SetSourceVolume(_ context.Context, name string, volume float64) error {
	s.mu.Lock()
	s.volumes[name] = volume
	s.mu.Unlock()
	s.logger.Info("host: set source volume", "source", name, "volume", volume)
	return nil
}

func (s *Surface) StartRecording(context.Context) error { return s.toggle(&s.recording, true, "recording") }
func (s *Surface) StopRecording(context.Context) error  { return s.toggle(&s.recording, false, "recording") }
func (s *Surface) StartStreaming(context.Context) error { return s.toggle(&s.streaming, true, "streaming") }
func (s *Surface) StopStreaming(context.Context) error  { return s.toggle(&s.streaming, false, "streaming") }

func (s *Surface) toggle(flag *bool, on bool, what string) error {
	s.mu.Lock()
	*flag = on
	s.mu.Unlock()
	s.logger.Info("host: "+what, "on", on)
	return nil
}

// Program returns the scene last moved to program.
func (s *Surface) Program() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.program
}

// Recording reports whether recording was started and not stopped since.
func (s *Surface) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Streaming reports whether streaming was started and not stopped since.
func (s *Surface) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// Volume returns the volume last set for the named source and whether one was set.
func (s *Surface) Volume(name string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.volumes[name]
	return v, ok
}
