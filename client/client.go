// Package client is the terminal chat client of the relay: it sends stdin
// lines decorated with a display identity and prints what the relay sends back.
package client

import (
	"bufio"
	"chat-relay/errors"
	"chat-relay/ui"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"
)

const DefaultQuitToken = "/quit"

// Dial connects to the relay. Any failure is reported as ErrServerUnreachable.
func Dial(ctx context.Context, address string, timeout time.Duration) (net.Conn, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrServerUnreachable, address, err)
	}
	return conn, nil
}

type Client struct {
	log       *slog.Logger
	conn      net.Conn
	identity  Identity
	quitToken string
	printer   *ui.Printer
}

func New(log *slog.Logger, conn net.Conn, identity Identity, quitToken string, printer *ui.Printer) *Client {
	if quitToken == "" {
		quitToken = DefaultQuitToken
	}
	return &Client{
		log:       log,
		conn:      conn,
		identity:  identity,
		quitToken: quitToken,
		printer:   printer,
	}
}

// Run sends the join announcement, then every line read from in, until the
// quit token, the end of in, ctx cancellation or the server going away.
// On quit or end of input the leave announcement is sent, the write side is
// half-closed and Run waits for the server to close the connection.
func (c *Client) Run(ctx context.Context, in io.Reader) error {
	received := make(chan struct{})
	go func() {
		defer close(received)
		c.receive()
	}()
	defer func() {
		_ = c.conn.Close()
		<-received
	}()

	if err := c.send(ui.JoinAnnouncement(c.identity.Emoji, c.identity.Username)); err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-received:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.log.Debug("Context done, leaving the chat")
			_ = c.send(ui.LeaveAnnouncement(c.identity.Emoji, c.identity.Username))
			return nil
		case <-received:
			c.log.Info("Server closed the connection")
			return nil
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == c.quitToken {
				return c.leave(ctx, received)
			}
			if err := c.send(ui.ChatLine(c.identity.Emoji, c.identity.Username, line)); err != nil {
				return err
			}
		}
	}
}

func (c *Client) leave(ctx context.Context, received <-chan struct{}) error {
	if err := c.send(ui.LeaveAnnouncement(c.identity.Emoji, c.identity.Username)); err != nil {
		return err
	}
	if hc, ok := c.conn.(interface{ CloseWrite() error }); ok {
		if err := hc.CloseWrite(); err != nil {
			c.log.Debug("Half close failed", "error", err)
		}
	} else {
		_ = c.conn.Close()
	}
	select {
	case <-received:
	case <-ctx.Done():
	}
	return nil
}

func (c *Client) send(line string) error {
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// receive prints every incoming line until the connection ends.
func (c *Client) receive() {
	reader := bufio.NewReader(c.conn)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			c.printer.Incoming(line)
		}
		if err != nil {
			if err != io.EOF {
				c.log.Debug("Receive stopped", "error", err)
			}
			return
		}
	}
}
