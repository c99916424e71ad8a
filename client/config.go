package client

import (
	"chat-relay/internal"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerAddress string        `envconfig:"CHAT_SERVER_ADDR" default:"127.0.0.1:8080"`
	QuitToken     string        `envconfig:"CHAT_QUIT_TOKEN" default:"/quit"`
	DialTimeout   time.Duration `envconfig:"CHAT_DIAL_TIMEOUT" default:"5s"`
	// CHAT_COLOURS enables the colored welcome banner
	Colours  bool   `envconfig:"CHAT_COLOURS" default:"true"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"WARN"`
}

// LoadConfig reads the environment. An optional first positional argument
// replaces the port of CHAT_SERVER_ADDR.
func LoadConfig(args []string) (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if len(args) > 0 {
		port, err := internal.ParsePort(args[0])
		if err != nil {
			return Config{}, err
		}
		host, _, err := net.SplitHostPort(cfg.ServerAddress)
		if err != nil {
			return Config{}, fmt.Errorf("config error: CHAT_SERVER_ADDR: %w", err)
		}
		cfg.ServerAddress = net.JoinHostPort(host, strconv.Itoa(port))
	}
	return cfg, nil
}
