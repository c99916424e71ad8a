package workers

import (
	"bytes"
	"chat-relay/observability"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatsReporterWorker_Disabled_Returns_Immediately(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	worker := NewStatsReporterWorker(log, observability.NewRelayStats(nil), 0)

	req.NoError(worker.Run(context.Background()))
	req.NotContains(buf.String(), "Relay stats")
}

func TestStatsReporterWorker_Logs_Snapshot_Periodically(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	stats := observability.NewRelayStats(fakeGauge{})
	stats.SessionOpened()
	stats.IncrPublished()
	worker := NewStatsReporterWorker(log, stats, 10*time.Millisecond)
	worker.usage = func() (observability.ProcessUsage, error) {
		return observability.ProcessUsage{RSSMb: 42, CPUPercent: 1.5, Threads: 7}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	// When the reporter runs for a few ticks
	req.NoError(worker.Run(ctx))

	// Then each report carries the counters and the process footprint
	logged := buf.String()
	req.Contains(logged, "Relay stats")
	req.Contains(logged, "active_sessions=1")
	req.Contains(logged, "published=1")
	req.Contains(logged, "rss_mb=42")
	req.Contains(logged, "threads=7")
}

func TestStatsReporterWorker_Survives_Process_Usage_Error(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	worker := NewStatsReporterWorker(log, observability.NewRelayStats(nil), 10*time.Millisecond)
	worker.usage = func() (observability.ProcessUsage, error) {
		return observability.ProcessUsage{}, fmt.Errorf("no procfs")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	req.NoError(worker.Run(ctx))
	req.Contains(buf.String(), "Relay stats")
	req.NotContains(buf.String(), "rss_mb")
}
