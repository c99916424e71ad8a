package main

import (
	"chat-relay/contract"
	"chat-relay/infrastructure/grpc/server"
	"chat-relay/internal"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/ui"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the relay and blocks until a signal or the console shutdown command.
// Deferred cleanups always run before the exit code reaches main.
func run(args []string) (int, error) {
	// 1. Configuration & Logger
	config, err := internal.Load(args)
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	printer := ui.NewPrinter(os.Stdout, !config.NoColor)

	// 2. Bind. A bind failure is fatal, there is no retry.
	listener, err := runtime.Listen(config.Address())
	if err != nil {
		return exitRuntime, err
	}

	// 3. Context & Signals. The console cancels the same context.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Relay & side workers
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	relay := runtime.NewRelay(log, supervisor, listener, config.HubCapacity, config.MaxLineLength)

	sideWorkers := []contract.Worker{
		workers.NewStatsReporterWorker(log, relay.Stats(), config.StatsInterval),
	}
	if config.ConsoleEnabled {
		sideWorkers = append(sideWorkers, workers.NewConsoleWorker(
			log, os.Stdin, os.Stdout, relay.Stats(), stop, config.ShutdownCommand))
	}
	if adminAddress := config.AdminAddress(); adminAddress != "" {
		adminListener, err := net.Listen("tcp", adminAddress)
		if err != nil {
			_ = listener.Close()
			return exitRuntime, fmt.Errorf("admin endpoint: %w", err)
		}
		sideWorkers = append(sideWorkers, server.NewHealthServerWorker(log, adminListener))
	}
	relay.Add(sideWorkers...)

	printer.ServerBanner(relay.Addr().String())

	// 5. Blocks until ctx is done and every worker exited
	if err := relay.Start(ctx); err != nil {
		return exitRuntime, fmt.Errorf("relay failed: %w", err)
	}

	printer.ShutdownBanner()
	log.Info("Program stopped cleanly")
	return exitOK, nil
}
