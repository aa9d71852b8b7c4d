package obs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	// ErrIndexOutOfRange is returned when a scene or transition index falls
	// outside the host's list.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidArgument is returned when a value route carries no usable value.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidMatch is returned for a Match whose captures do not fit its kind.
	ErrInvalidMatch = errors.New("invalid match")
)

// IndexError reports an index rejected before any state change.
type IndexError struct {
	// List is "scene" or "transition".
	List string
	// Index is the 0-based index that was rejected.
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("obs: %s index %d out of range [0,%d)", e.List, e.Index, e.Count)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// HostError wraps a failed call into the ControlSurface.
type HostError struct {
	Op  string
	Err error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("obs: host %s: %v", e.Op, e.Err)
}

func (e *HostError) Unwrap() error { return e.Err }

// State is the sequencer's selection. Both indices are 0-based.
type State struct {
	Preview    int `json:"preview"`
	Transition int `json:"transition"`
}

// Sequencer turns matched routes into ControlSurface calls and keeps the
// current preview and transition selection.
//
// Every index an action uses is validated before the state changes or the
// host is called. After validation the state is updated and the calls are
// issued in order; the first host error stops the sequence.
type Sequencer struct {
	surface ControlSurface

	mu     sync.Mutex
	state  State
	seeded bool
}

// NewSequencer returns a Sequencer driving surface.
func NewSequencer(surface ControlSurface) *Sequencer {
	return &Sequencer{surface: surface}
}

// State returns a snapshot of the current selection.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply executes m against the host.
func (s *Sequencer) Apply(ctx context.Context, m Match) error {
	if len(m.Captures) != m.Kind.captures() {
		return fmt.Errorf("%w: %s with %d captures", ErrInvalidMatch, m.Kind, len(m.Captures))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch m.Kind {
	case RecordingStart:
		return s.call("start recording", s.surface.StartRecording(ctx))
	case RecordingStop:
		return s.call("stop recording", s.surface.StopRecording(ctx))
	case StreamingStart:
		return s.call("start streaming", s.surface.StartStreaming(ctx))
	case StreamingStop:
		return s.call("stop streaming", s.surface.StopStreaming(ctx))
	case SourceVolume:
		return s.applyVolume(ctx, m)
	}

	s.seed(ctx)

	switch m.Kind {
	case TransitionStart:
		t, err := s.transitionIndex(ctx, s.state.Transition)
		if err != nil {
			return err
		}
		return s.execute(ctx, t)

	case TransitionSelect:
		t, err := s.transitionIndex(ctx, m.Captures[0]-1)
		if err != nil {
			return err
		}
		s.state.Transition = t
		return nil

	case TransitionSelectAndStart:
		t, err := s.transitionIndex(ctx, m.Captures[0]-1)
		if err != nil {
			return err
		}
		s.state.Transition = t
		return s.execute(ctx, t)

	case ScenePreview:
		n, _, err := s.sceneIndex(ctx, m.Captures[0]-1)
		if err != nil {
			return err
		}
		s.state.Preview = n
		return s.setPreview(ctx, n)

	case SceneStart, SceneGo:
		n, count, err := s.sceneIndex(ctx, m.Captures[0]-1)
		if err != nil {
			return err
		}
		t, err := s.transitionIndex(ctx, s.state.Transition)
		if err != nil {
			return err
		}
		s.state.Preview = n
		if err := s.setPreview(ctx, n); err != nil {
			return err
		}
		return s.executeAndAdvance(ctx, t, count)

	case SceneTransitionStart, SceneTransitionGo:
		n, count, err := s.sceneIndex(ctx, m.Captures[0]-1)
		if err != nil {
			return err
		}
		t, err := s.transitionIndex(ctx, m.Captures[1]-1)
		if err != nil {
			return err
		}
		s.state.Preview = n
		s.state.Transition = t
		if err := s.setPreview(ctx, n); err != nil {
			return err
		}
		return s.executeAndAdvance(ctx, t, count)

	case Go:
		n, count, err := s.sceneIndex(ctx, s.state.Preview)
		if err != nil {
			return err
		}
		t, err := s.transitionIndex(ctx, s.state.Transition)
		if err != nil {
			return err
		}
		s.state.Preview = n
		return s.executeAndAdvance(ctx, t, count)

	case TransitionDuration, TransitionDurationAt, TransitionDurationValue:
		return s.applyDuration(ctx, m)
	}

	return fmt.Errorf("%w: unknown kind %d", ErrInvalidMatch, int(m.Kind))
}

func (s *Sequencer) applyDuration(ctx context.Context, m Match) error {
	ds, ok := s.surface.(DurationSetter)
	if !ok {
		return fmt.Errorf("%s: %w", m.Kind, ErrUnsupported)
	}

	var (
		index = s.state.Transition
		ms    int
		err   error
	)
	switch m.Kind {
	case TransitionDuration:
		ms, err = durationArg(m.Args)
	case TransitionDurationAt:
		index = m.Captures[0] - 1
		ms, err = durationArg(m.Args)
	case TransitionDurationValue:
		ms = m.Captures[0]
	}
	if err != nil {
		return err
	}

	t, err := s.transitionIndex(ctx, index)
	if err != nil {
		return err
	}
	return s.call("set transition duration", ds.SetTransitionDuration(ctx, t, ms))
}

// applyVolume sets a source volume from the arguments [name, volume].
func (s *Sequencer) applyVolume(ctx context.Context, m Match) error {
	vs, ok := s.surface.(VolumeSetter)
	if !ok {
		return fmt.Errorf("%s: %w", m.Kind, ErrUnsupported)
	}
	if len(m.Args) != 2 {
		return fmt.Errorf("%w: want source name and volume, got %d arguments", ErrInvalidArgument, len(m.Args))
	}
	name, ok := m.Args[0].(string)
	if !ok || name == "" {
		return fmt.Errorf("%w: source name %v", ErrInvalidArgument, m.Args[0])
	}

	var volume float64
	switch v := m.Args[1].(type) {
	case float32:
		volume = float64(v)
	case int32:
		volume = float64(v)
	default:
		return fmt.Errorf("%w: volume of type %T", ErrInvalidArgument, v)
	}
	if math.IsNaN(volume) || math.IsInf(volume, 0) || volume < 0 {
		return fmt.Errorf("%w: volume %v", ErrInvalidArgument, volume)
	}

	return s.call("set source volume", vs.SetSourceVolume(ctx, name, volume))
}

// durationArg reads a single non-negative millisecond value.
func durationArg(args []interface{}) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: want one duration argument, got %d", ErrInvalidArgument, len(args))
	}
	var ms int
	switch v := args[0].(type) {
	case int32:
		ms = int(v)
	case float32:
		if math.IsNaN(float64(v)) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, fmt.Errorf("%w: duration %v", ErrInvalidArgument, v)
		}
		ms = int(v)
	default:
		return 0, fmt.Errorf("%w: duration of type %T", ErrInvalidArgument, v)
	}
	if ms < 0 {
		return 0, fmt.Errorf("%w: negative duration %d", ErrInvalidArgument, ms)
	}
	return ms, nil
}

// seed loads the host's current selection the first time state is needed.
// A host that cannot report it, or reports an index outside its own lists,
// leaves that index at zero.
func (s *Sequencer) seed(ctx context.Context) {
	if s.seeded {
		return
	}
	s.seeded = true

	cr, ok := s.surface.(CurrentReporter)
	if !ok {
		return
	}
	cur, err := cr.Current(ctx)
	if err != nil {
		return
	}
	if n, _, err := s.sceneIndex(ctx, cur.Preview); err == nil {
		s.state.Preview = n
	}
	if t, err := s.transitionIndex(ctx, cur.Transition); err == nil {
		s.state.Transition = t
	}
}

func (s *Sequencer) sceneIndex(ctx context.Context, index int) (int, int, error) {
	count, err := s.surface.SceneCount(ctx)
	if err != nil {
		return 0, 0, &HostError{Op: "scene count", Err: err}
	}
	if index < 0 || index >= count {
		return 0, 0, &IndexError{List: "scene", Index: index, Count: count}
	}
	return index, count, nil
}

func (s *Sequencer) transitionIndex(ctx context.Context, index int) (int, error) {
	count, err := s.surface.TransitionCount(ctx)
	if err != nil {
		return 0, &HostError{Op: "transition count", Err: err}
	}
	if index < 0 || index >= count {
		return 0, &IndexError{List: "transition", Index: index, Count: count}
	}
	return index, nil
}

// executeAndAdvance runs transition t, then stages the scene after the
// current preview without waiting for the transition to finish.
func (s *Sequencer) executeAndAdvance(ctx context.Context, t, scenes int) error {
	if err := s.execute(ctx, t); err != nil {
		return err
	}
	s.state.Preview = (s.state.Preview + 1) % scenes
	return s.setPreview(ctx, s.state.Preview)
}

func (s *Sequencer) execute(ctx context.Context, t int) error {
	return s.call("execute transition", s.surface.ExecuteTransition(ctx, t))
}

func (s *Sequencer) setPreview(ctx context.Context, n int) error {
	return s.call("set preview", s.surface.SetPreview(ctx, n))
}

func (s *Sequencer) call(op string, err error) error {
	if err != nil {
		return &HostError{Op: op, Err: err}
	}
	return nil
}
