package test

import (
	"bufio"
	"chat-relay/client"
	"chat-relay/errors"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/ui"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

type RelaySuite struct {
	suite.Suite
	relay *runtime.Relay
	done  chan error
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	listener, err := runtime.Listen("127.0.0.1:0")
	s.Require().NoError(err)

	s.relay = runtime.NewRelay(log, workers.NewSupervisor(log, 50*time.Millisecond), listener, 100, 0)
	s.done = make(chan error, 1)
	go func() { s.done <- s.relay.Start(context.Background()) }()
}

func (s *RelaySuite) TearDownTest() {
	s.relay.Stop()
	select {
	case err := <-s.done:
		s.NoError(err)
	case <-time.After(3 * time.Second):
		s.Fail("Relay did not stop")
	}
}

type peer struct {
	conn   net.Conn
	reader *bufio.Reader
}

func (s *RelaySuite) connect(expected int) *peer {
	conn, err := net.Dial("tcp", s.relay.Addr().String())
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	s.Require().Eventually(func() bool {
		return s.relay.Hub().Subscribers() == expected
	}, 2*time.Second, 5*time.Millisecond)
	return &peer{conn: conn, reader: bufio.NewReader(conn)}
}

func (s *RelaySuite) send(p *peer, line string) {
	_, err := fmt.Fprintln(p.conn, line)
	s.Require().NoError(err)
}

func (s *RelaySuite) readLine(p *peer, timeout time.Duration) (string, error) {
	_ = p.conn.SetReadDeadline(time.Now().Add(timeout))
	line, err := p.reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func (s *RelaySuite) Test_Line_Reaches_Every_Other_Connection() {
	a, b, c := s.connect(1), s.connect(2), s.connect(3)

	// When A sends hello
	s.send(a, "hello")

	// Then B and C read it
	for _, p := range []*peer{b, c} {
		line, err := s.readLine(p, 2*time.Second)
		s.Require().NoError(err)
		s.True(strings.HasSuffix(line, "hello"))
	}

	// And A never reads its own line
	_, err := s.readLine(a, 200*time.Millisecond)
	var netErr net.Error
	s.Require().ErrorAs(err, &netErr)
	s.True(netErr.Timeout())
}

func (s *RelaySuite) Test_Disconnect_Does_Not_Affect_Others() {
	a, b, c := s.connect(1), s.connect(2), s.connect(3)

	// When A drops
	s.Require().NoError(a.conn.Close())
	s.Require().Eventually(func() bool {
		return s.relay.Hub().Subscribers() == 2
	}, 2*time.Second, 5*time.Millisecond)

	// Then B and C keep talking in both directions
	s.send(b, "ping")
	line, err := s.readLine(c, 2*time.Second)
	s.Require().NoError(err)
	s.Equal("ping", line)

	s.send(c, "pong")
	line, err = s.readLine(b, 2*time.Second)
	s.Require().NoError(err)
	s.Equal("pong", line)
}

func (s *RelaySuite) Test_Clients_Chat_Through_The_Relay() {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	observer := s.connect(1)

	conn, err := client.Dial(context.Background(), s.relay.Addr().String(), time.Second)
	s.Require().NoError(err)
	identity := client.Identity{Username: "jade_koala", Emoji: "🐢"}
	chat := client.New(log, conn, identity, "", ui.NewPrinter(io.Discard, false))

	// When a client says one line then quits
	stdin, stdinWriter := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- chat.Run(context.Background(), stdin) }()

	// Then the other connection sees the join, the line and the leave
	line, err := s.readLine(observer, 2*time.Second)
	s.Require().NoError(err)
	s.Equal(ui.JoinAnnouncement("🐢", "jade_koala"), line)

	_, err = io.WriteString(stdinWriter, "hi there\n/quit\n")
	s.Require().NoError(err)

	line, err = s.readLine(observer, 2*time.Second)
	s.Require().NoError(err)
	s.Equal("🐢 jade_koala: hi there", line)

	line, err = s.readLine(observer, 2*time.Second)
	s.Require().NoError(err)
	s.Equal(ui.LeaveAnnouncement("🐢", "jade_koala"), line)

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.Fail("Client did not finish after quitting")
	}
	_ = stdinWriter.Close()
}

func (s *RelaySuite) Test_Unreachable_Server() {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	address := listener.Addr().String()
	s.Require().NoError(listener.Close())

	_, err = client.Dial(context.Background(), address, time.Second)

	s.ErrorIs(err, errors.ErrServerUnreachable)
}
