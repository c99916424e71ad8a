package workers

import (
	"bufio"
	"chat-relay/observability"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	DefaultShutdownCommand = "shutdown"
	statsCommand           = "stats"
	helpCommand            = "help"
)

// ConsoleWorker reads operator commands from a control stream (stdin).
// It shares nothing with the sessions: it may only read the counters and
// trigger the process shutdown.
type ConsoleWorker struct {
	log             *slog.Logger
	in              io.Reader
	out             io.Writer
	stats           *observability.RelayStats
	shutdown        context.CancelFunc
	shutdownCommand string
}

func NewConsoleWorker(log *slog.Logger, in io.Reader, out io.Writer,
	stats *observability.RelayStats, shutdown context.CancelFunc, shutdownCommand string) *ConsoleWorker {
	shutdownCommand = strings.ToLower(strings.TrimSpace(shutdownCommand))
	if shutdownCommand == "" {
		shutdownCommand = DefaultShutdownCommand
	}
	return &ConsoleWorker{
		log:             log,
		in:              in,
		out:             out,
		stats:           stats,
		shutdown:        shutdown,
		shutdownCommand: shutdownCommand,
	}
}

// Run returns nil on shutdown command, end of input or context cancellation.
// A blocked read on the control stream is abandoned, not interrupted.
func (w *ConsoleWorker) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(w.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("console: %w", err)
			}
			w.log.Debug("Console input closed")
			return nil
		case line := <-lines:
			if w.handle(line) {
				return nil
			}
		}
	}
}

// handle reports whether the console should stop.
func (w *ConsoleWorker) handle(line string) bool {
	command := strings.ToLower(strings.TrimSpace(line))
	switch command {
	case "":
	case w.shutdownCommand:
		w.log.Info("Shutdown requested from console")
		w.shutdown()
		return true
	case statsCommand:
		w.stats.Snapshot().RenderTable(w.out)
	case helpCommand:
		_, _ = fmt.Fprintf(w.out, "commands: %s, %s, %s\n", w.shutdownCommand, statsCommand, helpCommand)
	default:
		_, _ = fmt.Fprintf(w.out, "unknown command %q, type %s\n", strings.TrimSpace(line), helpCommand)
	}
	return false
}
