package obs

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(kind Kind, captures ...int) Match {
	return Match{Kind: kind, Captures: captures}
}

func TestSequencer_ScenePreview(t *testing.T) {
	const scenes = 5
	for nn := 1; nn <= scenes; nn++ {
		f := newFake(scenes, 2)
		s := NewSequencer(f)

		require.NoError(t, s.Apply(context.Background(), match(ScenePreview, nn)))
		assert.Equal(t, nn-1, s.State().Preview)
		assert.Equal(t, []call{{"preview", nn - 1}}, f.calls)
	}
}

func TestSequencer_ScenePreviewIdempotent(t *testing.T) {
	once := NewSequencer(newFake(4, 2))
	twice := NewSequencer(newFake(4, 2))
	ctx := context.Background()

	require.NoError(t, once.Apply(ctx, match(ScenePreview, 3)))
	require.NoError(t, twice.Apply(ctx, match(ScenePreview, 3)))
	require.NoError(t, twice.Apply(ctx, match(ScenePreview, 3)))

	assert.Equal(t, once.State(), twice.State())
}

func TestSequencer_SceneGo(t *testing.T) {
	for _, kind := range []Kind{SceneGo, SceneStart} {
		t.Run(kind.String(), func(t *testing.T) {
			f := newFake(3, 2)
			s := NewSequencer(f)

			require.NoError(t, s.Apply(context.Background(), match(kind, 2)))
			assert.Equal(t, State{Preview: 2, Transition: 0}, s.State())
			assert.Equal(t, []call{{"preview", 1}, {"transition", 0}, {"preview", 2}}, f.calls)
		})
	}
}

func TestSequencer_SceneGoWraps(t *testing.T) {
	f := newFake(3, 2)
	s := NewSequencer(f)

	require.NoError(t, s.Apply(context.Background(), match(SceneGo, 3)))
	assert.Equal(t, 0, s.State().Preview)
	assert.Equal(t, []call{{"preview", 2}, {"transition", 0}, {"preview", 0}}, f.calls)
}

func TestSequencer_SceneGoSingleScene(t *testing.T) {
	f := newFake(1, 1)
	s := NewSequencer(f)

	require.NoError(t, s.Apply(context.Background(), match(SceneGo, 1)))
	assert.Equal(t, 0, s.State().Preview)
	assert.Equal(t, []call{{"preview", 0}, {"transition", 0}, {"preview", 0}}, f.calls)
}

func TestSequencer_SceneTransitionGo(t *testing.T) {
	for _, kind := range []Kind{SceneTransitionGo, SceneTransitionStart} {
		t.Run(kind.String(), func(t *testing.T) {
			f := newFake(4, 3)
			s := NewSequencer(f)

			require.NoError(t, s.Apply(context.Background(), match(kind, 2, 2)))
			assert.Equal(t, State{Preview: 2, Transition: 1}, s.State())
			assert.Equal(t, []call{{"preview", 1}, {"transition", 1}, {"preview", 2}}, f.calls)
		})
	}
}

func TestSequencer_Go(t *testing.T) {
	f := newFake(3, 2)
	s := NewSequencer(f)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, match(TransitionSelect, 2)))
	require.NoError(t, s.Apply(ctx, match(Go)))
	require.NoError(t, s.Apply(ctx, match(Go)))
	require.NoError(t, s.Apply(ctx, match(Go)))

	assert.Equal(t, State{Preview: 0, Transition: 1}, s.State())
	assert.Equal(t, []call{
		{"transition", 1}, {"preview", 1},
		{"transition", 1}, {"preview", 2},
		{"transition", 1}, {"preview", 0},
	}, f.calls)
}

func TestSequencer_Transitions(t *testing.T) {
	ctx := context.Background()

	t.Run("select", func(t *testing.T) {
		f := newFake(3, 2)
		s := NewSequencer(f)
		require.NoError(t, s.Apply(ctx, match(TransitionSelect, 2)))
		assert.Equal(t, 1, s.State().Transition)
		assert.Empty(t, f.calls)
	})

	t.Run("select_and_start", func(t *testing.T) {
		f := newFake(3, 2)
		s := NewSequencer(f)
		require.NoError(t, s.Apply(ctx, match(TransitionSelectAndStart, 2)))
		assert.Equal(t, 1, s.State().Transition)
		assert.Equal(t, []call{{"transition", 1}}, f.calls)
	})

	t.Run("start_current", func(t *testing.T) {
		f := newFake(3, 2)
		s := NewSequencer(f)
		require.NoError(t, s.Apply(ctx, match(TransitionStart)))
		assert.Equal(t, State{}, s.State())
		assert.Equal(t, []call{{"transition", 0}}, f.calls)
	})
}

func TestSequencer_PassThrough(t *testing.T) {
	f := newFake(0, 0)
	s := NewSequencer(f)
	ctx := context.Background()

	for _, k := range []Kind{RecordingStart, RecordingStop, StreamingStart, StreamingStop} {
		require.NoError(t, s.Apply(ctx, match(k)))
	}
	assert.Equal(t, []call{
		{"start_recording", -1}, {"stop_recording", -1},
		{"start_streaming", -1}, {"stop_streaming", -1},
	}, f.calls)
	assert.Equal(t, State{}, s.State())
}

func TestSequencer_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		m    Match
	}{
		{"preview_zero", match(ScenePreview, 0)},
		{"preview_past_end", match(ScenePreview, 4)},
		{"preview_negative", match(ScenePreview, -1)},
		{"go_past_end", match(SceneGo, 4)},
		{"start_zero", match(SceneStart, 0)},
		{"select_zero", match(TransitionSelect, 0)},
		{"select_past_end", match(TransitionSelect, 3)},
		{"select_and_start_past_end", match(TransitionSelectAndStart, 3)},
		{"scene_transition_bad_scene", match(SceneTransitionGo, 5, 1)},
		{"scene_transition_bad_transition", match(SceneTransitionStart, 1, 3)},
		{"duration_at_past_end", Match{Kind: TransitionDurationAt, Captures: []int{3}, Args: []interface{}{int32(100)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake(3, 2)
			s := NewSequencer(f)
			ctx := context.Background()
			require.NoError(t, s.Apply(ctx, match(ScenePreview, 2)))
			f.calls = nil
			before := s.State()

			err := s.Apply(ctx, tt.m)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			var ierr *IndexError
			assert.ErrorAs(t, err, &ierr)
			assert.Equal(t, before, s.State())
			assert.Empty(t, f.calls)
		})
	}
}

func TestSequencer_EmptyHostLists(t *testing.T) {
	f := newFake(0, 0)
	s := NewSequencer(f)
	ctx := context.Background()

	for _, m := range []Match{match(Go), match(TransitionStart), match(SceneGo, 1)} {
		assert.ErrorIs(t, s.Apply(ctx, m), ErrIndexOutOfRange)
	}
	assert.Empty(t, f.calls)
	assert.Equal(t, State{}, s.State())
}

func TestSequencer_ShrunkSceneList(t *testing.T) {
	f := newFake(5, 1)
	s := NewSequencer(f)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, match(ScenePreview, 5)))
	f.scenes = 2
	f.calls = nil

	assert.ErrorIs(t, s.Apply(ctx, match(Go)), ErrIndexOutOfRange)
	assert.Equal(t, 4, s.State().Preview)
	assert.Empty(t, f.calls)
}

func TestSequencer_SeedsFromHost(t *testing.T) {
	r := &reportingSurface{fakeSurface: newFake(4, 3), current: State{Preview: 2, Transition: 1}}
	s := NewSequencer(r)

	require.NoError(t, s.Apply(context.Background(), match(Go)))
	assert.Equal(t, State{Preview: 3, Transition: 1}, s.State())
	assert.Equal(t, []call{{"transition", 1}, {"preview", 3}}, r.calls)
}

func TestSequencer_SeedErrorFallsBackToZero(t *testing.T) {
	r := &reportingSurface{fakeSurface: newFake(4, 3), current: State{Preview: 2}, err: errHostDown}
	s := NewSequencer(r)

	require.NoError(t, s.Apply(context.Background(), match(Go)))
	assert.Equal(t, State{Preview: 1}, s.State())
}

func TestSequencer_SeedOutOfRangeIgnored(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		current State
		apply   Match
		want    State
		calls   []call
	}{
		{
			name:    "stale_transition",
			current: State{Preview: 7, Transition: 5},
			apply:   match(ScenePreview, 1),
			want:    State{Preview: 0, Transition: 0},
			calls:   []call{{"preview", 0}},
		},
		{
			name:    "stale_preview",
			current: State{Preview: 7},
			apply:   match(TransitionSelect, 2),
			want:    State{Preview: 0, Transition: 1},
		},
		{
			name:    "negative",
			current: State{Preview: -1, Transition: -3},
			apply:   match(Go),
			want:    State{Preview: 1, Transition: 0},
			calls:   []call{{"transition", 0}, {"preview", 1}},
		},
		{
			name:    "one_valid",
			current: State{Preview: 2, Transition: 9},
			apply:   match(TransitionStart),
			want:    State{Preview: 2, Transition: 0},
			calls:   []call{{"transition", 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &reportingSurface{fakeSurface: newFake(3, 2), current: tt.current}
			s := NewSequencer(r)

			require.NoError(t, s.Apply(ctx, tt.apply))
			assert.Equal(t, tt.want, s.State())
			assert.Equal(t, tt.calls, r.calls)
		})
	}
}

func TestSequencer_Durations(t *testing.T) {
	ctx := context.Background()

	t.Run("current_transition", func(t *testing.T) {
		f := newFake(2, 3)
		s := NewSequencer(f)
		require.NoError(t, s.Apply(ctx, match(TransitionSelect, 3)))
		require.NoError(t, s.Apply(ctx, Match{Kind: TransitionDuration, Args: []interface{}{int32(750)}}))
		assert.Equal(t, map[int]int{2: 750}, f.durations)
	})

	t.Run("indexed", func(t *testing.T) {
		f := newFake(2, 3)
		s := NewSequencer(f)
		require.NoError(t, s.Apply(ctx, Match{Kind: TransitionDurationAt, Captures: []int{2}, Args: []interface{}{float32(300.7)}}))
		assert.Equal(t, map[int]int{1: 300}, f.durations)
		assert.Equal(t, 0, s.State().Transition)
	})

	t.Run("in_address", func(t *testing.T) {
		f := newFake(2, 3)
		s := NewSequencer(f)
		require.NoError(t, s.Apply(ctx, match(TransitionDurationValue, 1200)))
		assert.Equal(t, map[int]int{0: 1200}, f.durations)
	})

	t.Run("invalid_arguments", func(t *testing.T) {
		for _, args := range [][]interface{}{
			nil,
			{int32(-5)},
			{"100"},
			{int32(1), int32(2)},
			{float32(1e20)},
		} {
			f := newFake(2, 3)
			s := NewSequencer(f)
			err := s.Apply(ctx, Match{Kind: TransitionDuration, Args: args})
			assert.ErrorIs(t, err, ErrInvalidArgument, "args %v", args)
			assert.Empty(t, f.calls)
		}
	})

	t.Run("unsupported_host", func(t *testing.T) {
		f := newFake(2, 3)
		s := NewSequencer(plainSurface{f})
		err := s.Apply(ctx, match(TransitionDurationValue, 100))
		assert.ErrorIs(t, err, ErrUnsupported)
		assert.Empty(t, f.calls)
	})
}

func TestSequencer_SourceVolume(t *testing.T) {
	ctx := context.Background()
	volume := func(args ...interface{}) Match {
		return Match{Kind: SourceVolume, Args: args}
	}

	t.Run("name_and_float", func(t *testing.T) {
		f := newFake(2, 2)
		s := NewSequencer(f)
		require.NoError(t, s.Apply(ctx, volume("Mic/Aux", float32(0.25))))
		require.NoError(t, s.Apply(ctx, volume("Desktop Audio", int32(1))))
		assert.Equal(t, map[string]float64{"Mic/Aux": 0.25, "Desktop Audio": 1}, f.volumes)
		assert.Equal(t, State{}, s.State())
	})

	t.Run("invalid_arguments", func(t *testing.T) {
		for _, args := range [][]interface{}{
			nil,
			{"Mic/Aux"},
			{"Mic/Aux", float32(0.5), float32(1)},
			{int32(3), float32(0.5)},
			{"", float32(0.5)},
			{"Mic/Aux", "loud"},
			{"Mic/Aux", float32(-0.5)},
			{"Mic/Aux", float32(math.Inf(1))},
		} {
			f := newFake(2, 2)
			s := NewSequencer(f)
			err := s.Apply(ctx, volume(args...))
			assert.ErrorIs(t, err, ErrInvalidArgument, "args %v", args)
			assert.Empty(t, f.volumes)
		}
	})

	t.Run("unsupported_host", func(t *testing.T) {
		f := newFake(2, 2)
		s := NewSequencer(plainSurface{f})
		err := s.Apply(ctx, volume("Mic/Aux", float32(0.5)))
		assert.ErrorIs(t, err, ErrUnsupported)
		assert.Empty(t, f.calls)
	})
}

func TestSequencer_HostError(t *testing.T) {
	f := newFake(3, 2)
	f.failOp = "transition"
	s := NewSequencer(f)

	err := s.Apply(context.Background(), match(SceneGo, 2))
	assert.ErrorIs(t, err, errHostDown)
	var herr *HostError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "execute transition", herr.Op)

	// The transition failed, so the preview was staged but not advanced.
	assert.Equal(t, 1, s.State().Preview)
	assert.Equal(t, []call{{"preview", 1}}, f.calls)
}

func TestSequencer_InvalidMatch(t *testing.T) {
	f := newFake(3, 2)
	s := NewSequencer(f)
	ctx := context.Background()

	assert.ErrorIs(t, s.Apply(ctx, match(SceneGo)), ErrInvalidMatch)
	assert.ErrorIs(t, s.Apply(ctx, match(Go, 1)), ErrInvalidMatch)
	assert.ErrorIs(t, s.Apply(ctx, match(KindInvalid)), ErrInvalidMatch)
	assert.Empty(t, f.calls)
}
