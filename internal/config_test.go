package internal

import (
	"chat-relay/errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv unsets the variables for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)
	clearEnv(t, "HOST", "PORT", "HUB_CAPACITY", "MAX_LINE_LENGTH", "LOG_LEVEL", "STATS_INTERVAL",
		"RESTART_INTERVAL", "ADMIN_PORT", "CONSOLE_ENABLED", "SHUTDOWN_COMMAND", "NO_COLOR")

	cfg, err := Load(nil)

	req.NoError(err)
	req.Equal("127.0.0.1:8080", cfg.Address())
	req.Equal(1000, cfg.HubCapacity)
	req.Equal(65536, cfg.MaxLineLength)
	req.Equal("INFO", cfg.LogLevel)
	req.Equal(time.Minute, cfg.StatsInterval)
	req.Equal(200*time.Millisecond, cfg.RestartInterval)
	req.True(cfg.ConsoleEnabled)
	req.Equal("shutdown", cfg.ShutdownCommand)
	req.Empty(cfg.AdminAddress())
}

func TestLoad_From_Environment(t *testing.T) {
	req := require.New(t)
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9000")
	t.Setenv("HUB_CAPACITY", "16")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STATS_INTERVAL", "0s")
	t.Setenv("ADMIN_PORT", "9001")
	t.Setenv("CONSOLE_ENABLED", "false")

	cfg, err := Load(nil)

	req.NoError(err)
	req.Equal("0.0.0.0:9000", cfg.Address())
	req.Equal("0.0.0.0:9001", cfg.AdminAddress())
	req.Equal(16, cfg.HubCapacity)
	req.Equal("DEBUG", cfg.LogLevel)
	req.Zero(cfg.StatsInterval)
	req.False(cfg.ConsoleEnabled)
}

func TestLoad_Positional_Port_Overrides_Environment(t *testing.T) {
	req := require.New(t)
	t.Setenv("PORT", "9000")

	cfg, err := Load([]string{"7070"})

	req.NoError(err)
	req.Equal(7070, cfg.Port)
}

func TestLoad_Rejects_Invalid_Values(t *testing.T) {
	req := require.New(t)

	_, err := Load([]string{"not-a-port"})
	req.ErrorIs(err, errors.ErrInvalidPort)

	t.Setenv("HUB_CAPACITY", "0")
	_, err = Load(nil)
	req.ErrorContains(err, "invalid config")
}

func TestLoad_Rejects_Unknown_Log_Level(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	_, err := Load(nil)
	require.Error(t, err)
}

func TestParsePort(t *testing.T) {
	req := require.New(t)

	port, err := ParsePort(" 8080 ")
	req.NoError(err)
	req.Equal(8080, port)

	for _, raw := range []string{"", "0", "65536", "-1", "80a"} {
		_, err := ParsePort(raw)
		req.ErrorIs(err, errors.ErrInvalidPort, raw)
	}
}
