package notify

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

const firedTopic = "alerts.fired"

// KafkaSink publishes fired-alert events to the alerts.fired topic for
// downstream consumers (mail, SMS, audit).
type KafkaSink struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewKafkaSink builds a producer against the given broker.
func NewKafkaSink(broker string, logger *zap.Logger) (*KafkaSink, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": broker})
	if err != nil {
		return nil, err
	}
	return &KafkaSink{producer: producer, logger: logger}, nil
}

func (s *KafkaSink) Emit(_ context.Context, event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to marshal alert event", zap.Error(err))
		return
	}

	topic := firedTopic
	err = s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.AlertID),
		Value:          value,
	}, nil)
	if err != nil {
		s.logger.Error("failed to produce alert event",
			zap.String("alert_id", event.AlertID),
			zap.Error(err),
		)
	}
}

// Close flushes and closes the producer.
func (s *KafkaSink) Close() {
	s.producer.Flush(5000)
	s.producer.Close()
}
