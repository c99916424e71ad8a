package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// RelayServiceName is the service reported by the admin health endpoint,
// next to the overall ("") status.
const RelayServiceName = "chat.relay"

// HealthServerWorker serves the standard grpc.health.v1 service on the admin port.
// It reports SERVING while it runs and NOT_SERVING once shutdown starts.
type HealthServerWorker struct {
	log      *slog.Logger
	listener net.Listener
	server   *grpc.Server
	health   *health.Server
}

func NewHealthServerWorker(log *slog.Logger, listener net.Listener) *HealthServerWorker {
	server := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	return &HealthServerWorker{
		log:      log,
		listener: listener,
		server:   server,
		health:   healthServer,
	}
}

func (w *HealthServerWorker) Addr() net.Addr {
	return w.listener.Addr()
}

// Run serves until ctx is canceled. A grpc.Server cannot serve twice, so a
// serve failure is logged and not reported to the supervisor for a restart.
func (w *HealthServerWorker) Run(ctx context.Context) error {
	w.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	w.health.SetServingStatus(RelayServiceName, healthpb.HealthCheckResponse_SERVING)

	errChan := make(chan error, 1)
	go func() {
		w.log.Info("Starting admin health server", "address", w.listener.Addr().String())
		errChan <- w.server.Serve(w.listener)
	}()

	select {
	case <-ctx.Done():
		w.log.Info("Stopping admin health server")
		w.health.Shutdown()
		w.server.GracefulStop()
		<-errChan
		return nil
	case err := <-errChan:
		if err != nil && !stderrors.Is(err, grpc.ErrServerStopped) {
			w.log.Error("Admin health server failed", "error", err)
		}
		return nil
	}
}
