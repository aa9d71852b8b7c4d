package osc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"runtime"
	"time"
)

// Handler receives every datagram read by a Server. Handlers are called
// serially, in arrival order, from the server loop.
type Handler interface {
	HandleDatagram(ctx context.Context, data []byte, addr net.Addr)
}

// HandlerFunc implements the Handler interface.
type HandlerFunc func(ctx context.Context, data []byte, addr net.Addr)

// HandleDatagram calls f(ctx, data, addr).
func (f HandlerFunc) HandleDatagram(ctx context.Context, data []byte, addr net.Addr) {
	f(ctx, data, addr)
}

// Server represents an OSC server. The server listens on Addr for incoming
// datagrams and hands each one to Handler.
type Server struct {
	Addr        string
	Handler     Handler
	ReadTimeout time.Duration
	Logger      *slog.Logger
}

// ListenAndServe listens on s.Addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	return s.Serve(ctx, ln)
}

// Serve reads datagrams from c and dispatches them until ctx is cancelled or
// c fails permanently. A cancelled context closes c and yields a nil error.
func (s *Server) Serve(ctx context.Context, c net.PacketConn) error {
	logger := s.logger()

	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	logger.Info("osc server listening", "addr", c.LocalAddr())

	var tempDelay time.Duration
	for {
		data, addr, err := s.ReceivePacket(c)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if limit := 1 * time.Second; tempDelay > limit {
				tempDelay = limit
			}
			logger.Warn("osc read failed", "err", err, "retry_in", tempDelay)
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0
		s.serve(ctx, data, addr)
	}
}

func (s *Server) serve(ctx context.Context, data []byte, a net.Addr) {
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			s.logger().Error("osc: panic handling datagram", "from", a, "panic", err, "stack", string(buf))
		}
	}()
	if s.Handler != nil {
		s.Handler.HandleDatagram(ctx, data, a)
	}
}

// ReceivePacket reads one datagram from c and returns a copy of its bytes.
func (s *Server) ReceivePacket(c net.PacketConn) ([]byte, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := readPool.Get().(*[]byte)
	defer readPool.Put(b)

	n, a, err := c.ReadFrom(*b)
	if err != nil {
		return nil, a, err
	}
	bb := make([]byte, n)
	copy(bb, (*b)[:n])

	return bb, a, nil
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
