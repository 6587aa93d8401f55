package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"minigames_backend/pkg/contracts/events"
)

// Publisher - публикация событий о завершённых играх
type Publisher interface {
	PublishGameResolved(ctx context.Context, e events.GameResolved) error
}

// messageWriter - часть kafka.Writer, которая нужна публикатору
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// NewWriter - writer для топика событий
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

// PublishGameResolved ключ сообщения - аккаунт, чтобы события одного игрока шли по порядку
func (p *KafkaPublisher) PublishGameResolved(ctx context.Context, e events.GameResolved) error {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = time.Now().UnixMilli()
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.AccountID),
		Value: b,
		Time:  time.Now(),
	})
}

type noopPublisher struct{}

// NewNoopPublisher - когда брокеры не настроены
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishGameResolved(context.Context, events.GameResolved) error {
	return nil
}
