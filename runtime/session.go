package runtime

import (
	"bufio"
	"bytes"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/observability"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
)

const DefaultMaxLineLength = 64 * 1024

// Session relays one TCP connection.
// Ingest reads lines from the socket and publishes them on the hub.
// Deliver writes every message from the subscription whose origin is not
// this connection. Both are driven from a single select loop and the first
// side to stop tears the whole session down.
type Session struct {
	ID            domain.ConnectionID
	log           *slog.Logger
	conn          net.Conn
	publisher     contract.Publisher
	subscription  contract.ISubscription
	stats         *observability.RelayStats
	maxLineLength int
	started       atomic.Bool
	state         atomic.Int32
}

func NewSession(log *slog.Logger, conn net.Conn, id domain.ConnectionID,
	publisher contract.Publisher, subscription contract.ISubscription,
	stats *observability.RelayStats, maxLineLength int) *Session {
	if maxLineLength <= 0 {
		maxLineLength = DefaultMaxLineLength
	}
	return &Session{
		ID:            id,
		log:           log.With("session_id", id.Short(), "remote", remoteAddr(conn)),
		conn:          conn,
		publisher:     publisher,
		subscription:  subscription,
		stats:         stats,
		maxLineLength: maxLineLength,
	}
}

func (s *Session) State() domain.SessionState {
	return domain.SessionState(s.state.Load())
}

// Run blocks until the peer goes away, an I/O error occurs, the hub closes or
// ctx is canceled. The socket and the subscription are always released on
// return. A nil error means a clean end (EOF or shutdown).
func (s *Session) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.ErrSessionClosed
	}
	s.stats.SessionOpened()
	s.log.Info("Session started")

	// A write blocked on a peer that stopped reading only returns once the socket is closed.
	stopWatch := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	defer stopWatch()

	lines := make(chan string)
	stop := make(chan struct{})
	var readErr error
	go func() {
		defer close(lines)
		readErr = s.ingest(lines, stop)
	}()

	defer func() {
		s.state.Store(int32(domain.SessionClosing))
		close(stop)
		_ = s.conn.Close()
		s.subscription.Close()
		// Wait for the reader goroutine, closing conn unblocked it
		for range lines {
		}
		s.state.Store(int32(domain.SessionClosed))
		s.stats.SessionClosed()
		s.log.Info("Session closed")
	}()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Context done, closing session")
			return nil
		case line, ok := <-lines:
			if !ok {
				return s.ingestEnded(ctx, readErr)
			}
			if err := s.publish(line); err != nil {
				return err
			}
		case <-s.subscription.Ready():
			if err := s.deliver(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// ingest runs in its own goroutine because net.Conn reads cannot be selected on.
func (s *Session) ingest(lines chan<- string, stop <-chan struct{}) error {
	scanner := bufio.NewScanner(s.conn)
	// The initial buffer must not exceed the limit, the scanner honours the larger of the two.
	scanner.Buffer(make([]byte, 0, min(4096, s.maxLineLength)), s.maxLineLength)
	scanner.Split(scanRawLines)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-stop:
			return nil
		}
	}
	return scanner.Err()
}

// scanRawLines splits on '\n' only, a trailing '\r' stays part of the line.
func scanRawLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func (s *Session) ingestEnded(ctx context.Context, err error) error {
	if err == nil || ctx.Err() != nil {
		s.log.Debug("Peer closed the connection")
		return nil
	}
	s.log.Debug("Read failed", "error", err)
	return fmt.Errorf("read: %w", err)
}

func (s *Session) publish(line string) error {
	if _, err := s.publisher.Publish(domain.NewMessage(s.ID, line)); err != nil {
		s.stats.IncrPublishFailures()
		s.log.Error("Publish failed, closing session", "error", err)
		return fmt.Errorf("publish: %w", err)
	}
	s.stats.IncrPublished()
	return nil
}

// deliver handles one subscription event.
func (s *Session) deliver() error {
	msg, err := s.subscription.TryReceive()
	if err != nil {
		var lag *errors.LagError
		switch {
		case stderrors.As(err, &lag):
			s.stats.RecordLag(lag.Missed)
			s.log.Warn("Subscription lagged, resuming from oldest retained message", "missed", lag.Missed)
			return nil
		case stderrors.Is(err, errors.ErrEmpty):
			return nil
		default:
			return fmt.Errorf("receive: %w", err)
		}
	}

	if msg.IsFrom(s.ID) {
		s.stats.IncrEchoSuppressed()
		return nil
	}

	if _, err := io.WriteString(s.conn, msg.Content+"\n"); err != nil {
		s.stats.IncrWriteFailures()
		s.log.Debug("Write failed", "error", err)
		return fmt.Errorf("write: %w", err)
	}
	s.stats.IncrDelivered()
	return nil
}

func remoteAddr(conn net.Conn) string {
	if conn == nil || conn.RemoteAddr() == nil {
		return ""
	}
	return conn.RemoteAddr().String()
}
