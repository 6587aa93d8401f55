package env

import "minigames_backend/internal/config"

const metricsPortEnvName = "METRICS_PORT"

type metricsConfig struct {
	port string
}

func NewMetricsConfig() config.MetricsConfig {
	return &metricsConfig{port: getEnv(metricsPortEnvName, "9090")}
}

func (cfg *metricsConfig) Port() string {
	return cfg.port
}
