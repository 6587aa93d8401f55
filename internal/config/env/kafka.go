package env

import (
	"strings"

	"minigames_backend/internal/config"
	"minigames_backend/pkg/contracts/topics"
)

const (
	kafkaBrokersEnvName = "KAFKA_BROKERS"
	kafkaTopicEnvName   = "KAFKA_TOPIC_GAME_RESOLVED"
)

type kafkaConfig struct {
	brokers []string
	topic   string
}

// NewKafkaConfig - брокеры через запятую. Без брокеров события не публикуются
func NewKafkaConfig() config.KafkaConfig {
	var brokers []string
	for _, b := range strings.Split(getEnv(kafkaBrokersEnvName, ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return &kafkaConfig{
		brokers: brokers,
		topic:   getEnv(kafkaTopicEnvName, topics.GameResolved),
	}
}

func (cfg *kafkaConfig) Brokers() []string {
	return cfg.brokers
}

func (cfg *kafkaConfig) TopicGameResolved() string {
	return cfg.topic
}
