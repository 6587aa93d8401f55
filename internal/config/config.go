package config

import (
	"time"

	"minigames_backend/internal/model"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
	Timeout() time.Duration
}

type AppConfig interface {
	ServiceName() string
	Env() string
	// Storage - postgres или memory
	Storage() string
	InitialBalance() int64
	// RNGSeed - 32 байта сида, nil если сид не задан
	RNGSeed() []byte
}

type PGConfig interface {
	DSN() string
}

type RedisConfig interface {
	Addr() string
	SessionTTL() time.Duration
}

type KafkaConfig interface {
	Brokers() []string
	TopicGameResolved() string
}

type MetricsConfig interface {
	Port() string
}

type WheelConfig interface {
	Segments() []model.Segment
}

type EliminationConfig interface {
	Chambers() int
	FireOdds() int
}
