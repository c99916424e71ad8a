package workers

import (
	"chat-relay/observability"
	"context"
	"log/slog"
	"time"
)

// StatsReporterWorker periodically logs the relay counters and the process footprint.
type StatsReporterWorker struct {
	log      *slog.Logger
	stats    *observability.RelayStats
	interval time.Duration
	usage    func() (observability.ProcessUsage, error)
}

func NewStatsReporterWorker(log *slog.Logger, stats *observability.RelayStats, interval time.Duration) *StatsReporterWorker {
	return &StatsReporterWorker{
		log:      log,
		stats:    stats,
		interval: interval,
		usage:    observability.CurrentProcessUsage,
	}
}

// Run returns immediately when the interval is not positive.
func (w *StatsReporterWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		w.log.Debug("Stats reporting disabled")
		return nil
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping stats reporter")
			w.report()
			return nil
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *StatsReporterWorker) report() {
	args := w.stats.Snapshot().LogArgs()
	usage, err := w.usage()
	if err != nil {
		w.log.Debug("Process usage unavailable", "error", err)
	} else {
		args = append(args, usage.LogArgs()...)
	}
	w.log.Info("Relay stats", args...)
}
