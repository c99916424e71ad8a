package internal

import (
	"chat-relay/errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config is the relay server configuration, read from the environment
// (and from a .env file when present).
type Config struct {
	Host            string        `env:"HOST,default=127.0.0.1" validate:"required"`
	Port            int           `env:"PORT,default=8080" validate:"min=0,max=65535"`
	HubCapacity     int           `env:"HUB_CAPACITY,default=1000" validate:"min=1"`
	MaxLineLength   int           `env:"MAX_LINE_LENGTH,default=65536" validate:"min=16"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	StatsInterval   time.Duration `env:"STATS_INTERVAL,default=1m" validate:"min=0s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0s"`
	AdminPort       int           `env:"ADMIN_PORT,default=0" validate:"min=0,max=65535"`
	ConsoleEnabled  bool          `env:"CONSOLE_ENABLED,default=true"`
	ShutdownCommand string        `env:"SHUTDOWN_COMMAND,default=shutdown" validate:"required"`
	NoColor         bool          `env:"NO_COLOR,default=false"`
}

// Load reads the environment. An optional first positional argument
// overrides PORT.
func Load(args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if len(args) > 0 {
		port, err := ParsePort(args[0])
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// AdminAddress is empty when the admin endpoint is disabled.
func (c Config) AdminAddress() string {
	if c.AdminPort == 0 {
		return ""
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.AdminPort))
}

// ParsePort validates a TCP port given on the command line.
func ParsePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: %q", errors.ErrInvalidPort, raw)
	}
	return port, nil
}
