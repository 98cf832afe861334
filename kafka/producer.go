package kafka

import (
	"context"
	"log"

	"github.com/segmentio/kafka-go"
)

// ProducerAPI is the surface services publish through, mockable in tests.
type ProducerAPI interface {
	Publish(topic string, message []byte) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	log.Printf("[TransactionService][KafkaProducer] initialized brokers=%v", brokers)
	return &Producer{writer: w}
}

func (p *Producer) Publish(topic string, message []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Value: message,
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		log.Printf("❌ [TransactionService][KafkaProducer] publish failed topic=%s err=%v", topic, err)
		return err
	}
	return nil
}

func (p *Producer) Close() error {
	log.Printf("[TransactionService][KafkaProducer] closing writer")
	return p.writer.Close()
}
