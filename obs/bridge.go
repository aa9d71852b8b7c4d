package obs

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	"github.com/chabad360/obs-osc/osc"
)

// Drop reasons reported to an Observer.
const (
	ReasonMalformedHeader = "decode_malformed_header"
	ReasonUnsupportedType = "decode_unsupported_type"
	ReasonTruncated       = "decode_truncated"
	ReasonNoMatch         = "no_match"
	ReasonTrigger         = "trigger"
	ReasonOutOfRange      = "index_out_of_range"
	ReasonInvalid         = "invalid_argument"
	ReasonUnsupported     = "unsupported"
	ReasonHost            = "host"
	ReasonPanic           = "panic"
)

// ErrNotTriggered is returned when trigger gating is on and a message is not
// a button press.
var ErrNotTriggered = errors.New("not a trigger")

// Observer is notified about every datagram the Bridge handles.
type Observer interface {
	Received(size int)
	Dropped(reason string)
	Applied(kind Kind)
	StateChanged(State)
}

type nopObserver struct{}

func (nopObserver) Received(int)       {}
func (nopObserver) Dropped(string)     {}
func (nopObserver) Applied(Kind)       {}
func (nopObserver) StateChanged(State) {}

// Bridge is the per-datagram pipeline: decode, route, gate, apply.
// It implements osc.Handler.
type Bridge struct {
	sequencer      *Sequencer
	router         *Router
	logger         *slog.Logger
	observer       Observer
	requireTrigger bool

	mu sync.Mutex
}

var _ osc.Handler = (*Bridge)(nil)

type Option func(*Bridge)

// WithRouter replaces the default /obs router.
func WithRouter(r *Router) Option {
	return func(b *Bridge) {
		b.router = r
	}
}

// WithLogger sets the logger for per-datagram diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = l
	}
}

// WithObserver sets the observer notified about every datagram.
func WithObserver(o Observer) Option {
	return func(b *Bridge) {
		b.observer = o
	}
}

// WithRequireTrigger makes the bridge act only on messages carrying a single
// argument equal to 1, as sent by a push button on press.
func WithRequireTrigger(on bool) Option {
	return func(b *Bridge) {
		b.requireTrigger = on
	}
}

// NewBridge returns a Bridge applying routed messages to seq.
func NewBridge(seq *Sequencer, opts ...Option) *Bridge {
	b := &Bridge{
		sequencer: seq,
		router:    NewRouter(),
		logger:    slog.Default(),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// HandleDatagram handles one datagram. Errors are logged and reported to the
// observer; they never escape.
func (b *Bridge) HandleDatagram(ctx context.Context, data []byte, addr net.Addr) {
	logger := b.logger.With("bytes", len(data))
	if addr != nil {
		logger = logger.With("from", addr.String())
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic handling datagram", "panic", r)
			b.observer.Dropped(ReasonPanic)
		}
	}()

	b.observer.Received(len(data))

	m, err := b.Handle(ctx, data)
	if err != nil {
		reason := Reason(err)
		b.observer.Dropped(reason)
		switch reason {
		case ReasonTrigger:
			logger.Debug("ignoring non-trigger message", "kind", m.Kind)
		case ReasonNoMatch:
			logger.Info("dropping datagram", "reason", reason, "err", err)
		default:
			logger.Warn("dropping datagram", "reason", reason, "kind", m.Kind, "captures", m.Captures, "err", err)
		}
		return
	}

	state := b.sequencer.State()
	b.observer.Applied(m.Kind)
	b.observer.StateChanged(state)
	logger.Debug("applied", "kind", m.Kind, "captures", m.Captures, "preview", state.Preview, "transition", state.Transition)
}

// Handle decodes, routes and applies data and returns the routed match along
// with any error. Calls are serialized.
func (b *Bridge) Handle(ctx context.Context, data []byte) (Match, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	msg, err := osc.Decode(data)
	if err != nil {
		return Match{}, err
	}

	m, err := b.router.Match(msg.Address)
	if err != nil {
		return Match{}, err
	}
	m.Args = msg.Arguments

	if b.requireTrigger && !m.Kind.takesValue() && !isTrigger(msg.Arguments) {
		return m, ErrNotTriggered
	}

	return m, b.sequencer.Apply(ctx, m)
}

// isTrigger reports whether args is a single 1.0 float or 1 int.
func isTrigger(args []interface{}) bool {
	if len(args) != 1 {
		return false
	}
	switch v := args[0].(type) {
	case float32:
		return v == 1
	case int32:
		return v == 1
	}
	return false
}

// Reason classifies an error from Handle into a drop reason.
func Reason(err error) string {
	switch {
	case errors.Is(err, osc.ErrMalformedHeader):
		return ReasonMalformedHeader
	case errors.Is(err, osc.ErrUnsupportedType):
		return ReasonUnsupportedType
	case errors.Is(err, osc.ErrTruncated):
		return ReasonTruncated
	case errors.Is(err, ErrNoMatch):
		return ReasonNoMatch
	case errors.Is(err, ErrNotTriggered):
		return ReasonTrigger
	case errors.Is(err, ErrIndexOutOfRange):
		return ReasonOutOfRange
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidMatch):
		return ReasonInvalid
	case errors.Is(err, ErrUnsupported):
		return ReasonUnsupported
	}
	return ReasonHost
}
