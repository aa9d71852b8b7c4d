// Package redis connects the bridge to a host through Redis.
//
// The host keeps its scene and transition names in the lists <prefix>scenes
// and <prefix>transitions, and may publish its current selection in
// <prefix>current:preview and <prefix>current:transition. The bridge sends
// commands as JSON on the channel <prefix>commands.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chabad360/obs-osc/obs"
	backend "github.com/redis/go-redis/v9"
)

// Actions published on the command channel.
const (
	ActionSetPreview            = "set_preview"
	ActionExecuteTransition     = "execute_transition"
	ActionSetTransitionDuration = "set_transition_duration"
	ActionSetSourceVolume       = "set_source_volume"
	ActionStartRecording        = "start_recording"
	ActionStopRecording         = "stop_recording"
	ActionStartStreaming        = "start_streaming"
	ActionStopStreaming         = "stop_streaming"
)

// ErrNoCurrent is returned by Current when the host has not published its selection.
var ErrNoCurrent = errors.New("host has not published its current selection")

// Command is the JSON payload published for every host call.
type Command struct {
	Action     string   `json:"action"`
	Index      *int     `json:"index,omitempty"`
	Name       string   `json:"name,omitempty"`
	DurationMS *int     `json:"duration_ms,omitempty"`
	Volume     *float64 `json:"volume,omitempty"`
}

// Surface implements obs.ControlSurface over Redis.
type Surface struct {
	client  *backend.Client
	prefix  string
	timeout time.Duration
}

var (
	_ obs.ControlSurface  = (*Surface)(nil)
	_ obs.CurrentReporter = (*Surface)(nil)
	_ obs.DurationSetter  = (*Surface)(nil)
	_ obs.VolumeSetter    = (*Surface)(nil)
)

type Option func(*Surface)

// WithPrefix sets the key and channel prefix.
func WithPrefix(prefix string) Option {
	return func(s *Surface) {
		s.prefix = prefix
	}
}

// WithTimeout bounds every Redis round trip.
func WithTimeout(d time.Duration) Option {
	return func(s *Surface) {
		s.timeout = d
	}
}

// New creates a Surface with its own client.
func New(address, password string, db int, opts ...Option) *Surface {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Surface from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Surface {
	s := &Surface{
		client: client,
		prefix: "obs:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) key(name string) string {
	return s.prefix + name
}

// Channel is the channel commands are published on.
func (s *Surface) Channel() string {
	return s.key("commands")
}

func (s *Surface) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Ping checks the connection.
func (s *Surface) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *Surface) SceneCount(ctx context.Context) (int, error) {
	return s.count(ctx, "scenes")
}

func (s *Surface) TransitionCount(ctx context.Context) (int, error) {
	return s.count(ctx, "transitions")
}

func (s *Surface) count(ctx context.Context, list string) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	n, err := s.client.LLen(ctx, s.key(list)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", list, err)
	}
	return int(n), nil
}

// Current reads the host's published selection.
func (s *Surface) Current(ctx context.Context) (obs.State, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	vals, err := s.client.MGet(ctx, s.key("current:preview"), s.key("current:transition")).Result()
	if err != nil {
		return obs.State{}, fmt.Errorf("failed to read current selection: %w", err)
	}

	var idx [2]int
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			return obs.State{}, ErrNoCurrent
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return obs.State{}, fmt.Errorf("invalid current index %q: %w", str, err)
		}
		idx[i] = n
	}
	return obs.State{Preview: idx[0], Transition: idx[1]}, nil
}

func (s *Surface) SetPreview(ctx context.Context, index int) error {
	return s.publishIndexed(ctx, ActionSetPreview, "scenes", index, nil)
}

func (s *Surface) ExecuteTransition(ctx context.Context, index int) error {
	return s.publishIndexed(ctx, ActionExecuteTransition, "transitions", index, nil)
}

func (s *Surface) SetTransitionDuration(ctx context.Context, index, durationMS int) error {
	return s.publishIndexed(ctx, ActionSetTransitionDuration, "transitions", index, &durationMS)
}

// SetSourceVolume publishes the volume for the named source; the host looks
// the source up by name.
func (s *Surface) SetSourceVolume(ctx context.Context, name string, volume float64) error {
	return s.publish(ctx, Command{Action: ActionSetSourceVolume, Name: name, Volume: &volume})
}

func (s *Surface) StartRecording(ctx context.Context) error {
	return s.publish(ctx, Command{Action: ActionStartRecording})
}

func (s *Surface) StopRecording(ctx context.Context) error {
	return s.publish(ctx, Command{Action: ActionStopRecording})
}

func (s *Surface) StartStreaming(ctx context.Context) error {
	return s.publish(ctx, Command{Action: ActionStartStreaming})
}

func (s *Surface) StopStreaming(ctx context.Context) error {
	return s.publish(ctx, Command{Action: ActionStopStreaming})
}

// publishIndexed resolves the item name from list and publishes the command.
func (s *Surface) publishIndexed(ctx context.Context, action, list string, index int, durationMS *int) error {
	lctx, cancel := s.withTimeout(ctx)
	name, err := s.client.LIndex(lctx, s.key(list), int64(index)).Result()
	cancel()
	if err != nil && !errors.Is(err, backend.Nil) {
		return fmt.Errorf("failed to resolve %s %d: %w", list, index, err)
	}

	return s.publish(ctx, Command{
		Action:     action,
		Index:      &index,
		Name:       name,
		DurationMS: durationMS,
	})
}

func (s *Surface) publish(ctx context.Context, cmd Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.client.Publish(ctx, s.Channel(), data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", cmd.Action, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Surface) Close() error {
	return s.client.Close()
}
