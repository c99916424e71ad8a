// Package runtime holds the relay engine: the broadcast hub, the per-connection
// sessions and the accept loop, plus the wiring that runs them under supervision.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"chat-relay/observability"
	"context"
	"log/slog"
	"net"
	"sync"
)

// Relay owns the hub, the counters and the bound listener.
// Start registers the accept loop and any side workers with the supervisor.
type Relay struct {
	mu         sync.Mutex
	log        *slog.Logger
	hub        *Hub
	stats      *observability.RelayStats
	supervisor contract.ISupervisor
	acceptor   *Acceptor
	sideJobs   []contract.Worker
	started    bool
	failure    error
}

func NewRelay(log *slog.Logger, supervisor contract.ISupervisor, listener net.Listener,
	hubCapacity, maxLineLength int) *Relay {
	hub := NewHub(hubCapacity)
	stats := observability.NewRelayStats(hub)
	return &Relay{
		log:        log,
		hub:        hub,
		stats:      stats,
		supervisor: supervisor,
		acceptor:   NewAcceptor(log, listener, hub, stats, maxLineLength),
	}
}

func (r *Relay) Hub() *Hub {
	return r.hub
}

func (r *Relay) Stats() *observability.RelayStats {
	return r.stats
}

func (r *Relay) Addr() net.Addr {
	return r.acceptor.Addr()
}

// Add registers workers that run next to the accept loop (console, reporters...).
// It must be called before Start.
func (r *Relay) Add(workers ...contract.Worker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sideJobs = append(r.sideJobs, workers...)
}

// Start blocks until ctx is canceled or Stop is called and every worker exited.
// It returns ErrListenerClosed when the accept loop ended on its own.
func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = true
	r.supervisor.Add(&acceptWorker{relay: r})
	r.supervisor.Add(r.sideJobs...)
	sideWorkers := len(r.sideJobs)
	r.mu.Unlock()

	r.log.Info("Starting relay", "address", r.Addr().String(),
		"hub_capacity", r.hub.Capacity(), "side_workers", sideWorkers)
	r.supervisor.Run(ctx)
	// The accept loop may never have run when Stop came first.
	_ = r.acceptor.listener.Close()
	r.hub.Close()

	r.mu.Lock()
	failure := r.failure
	r.mu.Unlock()
	if failure != nil {
		r.log.Error("Relay stopped", "error", failure)
		return failure
	}
	r.log.Info("Relay stopped")
	return nil
}

// Stop cancels the supervised workers; Start returns once they are done.
func (r *Relay) Stop() {
	r.log.Info("Requesting relay shutdown")
	r.supervisor.Stop()
}

// acceptWorker runs the accept loop and takes the whole relay down when the
// listener goes away while nobody asked for it.
type acceptWorker struct {
	relay *Relay
}

func (w *acceptWorker) Run(ctx context.Context) error {
	if err := w.relay.acceptor.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() == nil {
		w.relay.mu.Lock()
		w.relay.failure = errors.ErrListenerClosed
		w.relay.mu.Unlock()
		w.relay.supervisor.Stop()
	}
	return nil
}
