package main

import (
	"chat-relay/client"
	"chat-relay/ui"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

var newIdentity client.IdentityGenerator = client.RandomIdentity

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run(args []string) (int, error) {
	// 1. Load configuration from environment variables.
	config, err := client.LoadConfig(args)
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect. An unreachable server is a runtime error, not a crash.
	conn, err := client.Dial(ctx, config.ServerAddress, config.DialTimeout)
	if err != nil {
		return exitRuntime, err
	}

	identity := newIdentity()
	printer := ui.NewPrinter(os.Stdout, config.Colours)
	printer.WelcomeBanner(identity.Emoji, identity.Username)

	// 4. Chat until quit, end of stdin, Ctrl+C or server hang up.
	if err := client.New(log, conn, identity, config.QuitToken, printer).Run(ctx, os.Stdin); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}
