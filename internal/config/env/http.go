package env

import (
	"fmt"
	"net"
	"time"

	"minigames_backend/internal/config"
)

const (
	httpHostEnvName    = "HTTP_HOST"
	httpPortEnvName    = "HTTP_PORT"
	httpTimeoutEnvName = "HTTP_TIMEOUT"
)

type httpConfig struct {
	host    string
	port    string
	timeout time.Duration
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	timeout, err := time.ParseDuration(getEnv(httpTimeoutEnvName, "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid http timeout: %w", err)
	}

	return &httpConfig{
		host:    getEnv(httpHostEnvName, "0.0.0.0"),
		port:    getEnv(httpPortEnvName, "8080"),
		timeout: timeout,
	}, nil
}

func (cfg *httpConfig) Address() string {
	return net.JoinHostPort(cfg.host, cfg.port)
}

func (cfg *httpConfig) Timeout() time.Duration {
	return cfg.timeout
}
