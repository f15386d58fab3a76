package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// KafkaPublisher writes events to a single topic, keyed by aggregate id so
// every event of one booking lands on the same partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logrus.Logger
}

// publishBatchTimeout bounds how long a write waits to fill a batch.
const publishBatchTimeout = 10 * time.Millisecond

func NewKafkaPublisher(brokers []string, topic string, log *logrus.Logger) *KafkaPublisher {
	log.Infof("Kafka publisher ready: brokers=%v topic=%s", brokers, topic)
	return &KafkaPublisher{writer: newWriter(brokers, topic, log), log: log}
}

// newWriter returns an async writer: WriteMessages only enqueues, and
// delivery failures surface through Completion.
func newWriter(brokers []string, topic string, log *logrus.Logger) *kafka.Writer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: publishBatchTimeout,
		Async:        true,
	})
	writer.Completion = func(messages []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, msg := range messages {
			log.WithFields(logrus.Fields{
				"topic":      msg.Topic,
				"key":        string(msg.Key),
				"event_type": headerValue(msg, "event_type"),
			}).Warnf("Failed to deliver event: %+v", err)
		}
	}
	return writer
}

func (p *KafkaPublisher) Publish(ctx context.Context, event service.Event) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for %s: %w", event.Type, event.AggregateID, err)
	}
	p.log.Debugf("Queued event %s for %s", event.Type, event.AggregateID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func buildMessage(event service.Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	return kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID.String())},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
