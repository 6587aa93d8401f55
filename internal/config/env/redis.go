package env

import (
	"fmt"
	"time"

	"minigames_backend/internal/config"
)

const (
	redisAddrEnvName  = "REDIS_ADDR"
	sessionTTLEnvName = "SESSION_TTL"
)

type redisConfig struct {
	addr       string
	sessionTTL time.Duration
}

// NewRedisConfig - пустой адрес значит хранить сессии в памяти
func NewRedisConfig() (config.RedisConfig, error) {
	ttl, err := time.ParseDuration(getEnv(sessionTTLEnvName, "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	return &redisConfig{
		addr:       getEnv(redisAddrEnvName, ""),
		sessionTTL: ttl,
	}, nil
}

func (cfg *redisConfig) Addr() string {
	return cfg.addr
}

func (cfg *redisConfig) SessionTTL() time.Duration {
	return cfg.sessionTTL
}
