package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/observability"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Listen binds the TCP listening socket. A failure is fatal for the server.
func Listen(address string) (net.Listener, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrBind, address, err)
	}
	return listener, nil
}

// Acceptor accepts connections forever and runs one Session per socket.
// It never waits on a session, and no session error reaches it.
type Acceptor struct {
	log           *slog.Logger
	listener      net.Listener
	hub           contract.IHub
	stats         *observability.RelayStats
	maxLineLength int
	sessions      sync.WaitGroup
}

func NewAcceptor(log *slog.Logger, listener net.Listener, hub contract.IHub,
	stats *observability.RelayStats, maxLineLength int) *Acceptor {
	return &Acceptor{
		log:           log,
		listener:      listener,
		hub:           hub,
		stats:         stats,
		maxLineLength: maxLineLength,
	}
}

func (a *Acceptor) Addr() net.Addr {
	return a.listener.Addr()
}

// Run returns nil once ctx is canceled or the listener is closed, after every
// session it started has ended.
func (a *Acceptor) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	defer a.sessions.Wait()

	go func() {
		select {
		case <-ctx.Done():
			_ = a.listener.Close()
		case <-done:
		}
	}()

	a.log.Info("Accepting connections", "address", a.listener.Addr().String())
	var backoff time.Duration
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, net.ErrClosed) {
				a.log.Info("Listener closed, accept loop stopped")
				return nil
			}
			backoff = nextBackoff(backoff)
			a.stats.IncrAcceptFailures()
			a.log.Warn("Accept failed, retrying", "error", err, "backoff", backoff)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
		a.serve(ctx, conn)
	}
}

func (a *Acceptor) serve(ctx context.Context, conn net.Conn) {
	id := domain.NewConnectionID()
	subscription, err := a.hub.Subscribe()
	if err != nil {
		a.log.Warn("Rejecting connection", "remote", remoteAddr(conn), "error", err)
		_ = conn.Close()
		return
	}

	session := NewSession(a.log, conn, id, a.hub, subscription, a.stats, a.maxLineLength)
	a.sessions.Add(1)
	go func() {
		defer a.sessions.Done()
		defer func() {
			if r := recover(); r != nil {
				a.log.Error("Session panicked", "session_id", id.String(), "panic", r)
				_ = conn.Close()
				subscription.Close()
			}
		}()
		if err := session.Run(ctx); err != nil {
			a.log.Info("Session ended", "session_id", id.String(), "error", err)
		}
	}()
}

func nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return minAcceptBackoff
	}
	return min(current*2, maxAcceptBackoff)
}
