package events

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/model"
	"github.com/libhub/library-api/pkg/kafka"
)

// Publisher writes loan lifecycle events to the loan-events topic.
type Publisher struct {
	producer sarama.SyncProducer
	log      *zap.Logger
}

func NewPublisher(producer sarama.SyncProducer, log *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		log:      log.Named("events"),
	}
}

func (p *Publisher) Publish(event model.LoanEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: kafka.LoanEventsTopic,
		Key:   sarama.StringEncoder(event.ISBN),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return err
	}
	p.log.Debug("published", zap.String("type", event.Type), zap.Int64("loanId", event.LoanID))
	return nil
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func NewNopPublisher() NopPublisher { return NopPublisher{} }

func (NopPublisher) Publish(model.LoanEvent) error { return nil }
