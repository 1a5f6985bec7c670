// Package kafka streams generated meter readings to a topic, imitating
// the live telemetry feed the dataset stands in for.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/gridwerk/demogrid/internal/generator/domain"
	"go.uber.org/zap"
)

// ErrInvalidConfig signals missing sink dependencies.
var ErrInvalidConfig = errors.New("invalid_kafka_config")

// publishBatchSize bounds the number of messages per produce request.
const publishBatchSize = 1000

// Reading is the wire payload. Partitioning is keyed by meter id so one
// meter's readings stay ordered.
type Reading struct {
	ReadingID      string    `json:"readingId"`
	MeterID        string    `json:"meterId"`
	CustomerID     string    `json:"customerId"`
	Timestamp      time.Time `json:"timestamp"`
	ConsumptionKwh float64   `json:"consumptionKwh"`
	GenerationKw   float64   `json:"generationKw"`
	RunID          string    `json:"runId"`
}

func newReading(r domain.MeterReading, runID string) Reading {
	return Reading{
		ReadingID:      r.ReadingID,
		MeterID:        r.MeterID,
		CustomerID:     r.CustomerID,
		Timestamp:      r.Timestamp,
		ConsumptionKwh: r.KWHConsumption,
		GenerationKw:   r.KWGeneration,
		RunID:          runID,
	}
}

// NewProducer builds a sync producer that waits for full acknowledgement.
func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Compression = sarama.CompressionSnappy
	return sarama.NewSyncProducer(brokers, cfg)
}

type Sink struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func New(producer sarama.SyncProducer, topic string, log *zap.Logger) (*Sink, error) {
	if producer == nil || topic == "" || log == nil {
		return nil, ErrInvalidConfig
	}
	return &Sink{producer: producer, topic: topic, log: log.Named("sink.kafka")}, nil
}

func (s *Sink) Name() string {
	return "kafka"
}

// Write publishes every reading of the run in meter-keyed batches.
func (s *Sink) Write(ctx context.Context, res *domain.Result) error {
	started := time.Now()

	batch := make([]*sarama.ProducerMessage, 0, publishBatchSize)
	sent := 0
	for _, reading := range res.Readings {
		payload, err := json.Marshal(newReading(reading, res.RunID))
		if err != nil {
			return fmt.Errorf("encode reading %s: %w", reading.ReadingID, err)
		}
		batch = append(batch, &sarama.ProducerMessage{
			Topic: s.topic,
			Key:   sarama.StringEncoder(reading.MeterID),
			Value: sarama.ByteEncoder(payload),
		})

		if len(batch) == publishBatchSize {
			if err := s.flush(ctx, batch); err != nil {
				return err
			}
			sent += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := s.flush(ctx, batch); err != nil {
			return err
		}
		sent += len(batch)
	}

	s.log.Info("readings published",
		zap.String("run_id", res.RunID),
		zap.String("topic", s.topic),
		zap.Int("messages", sent),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}

func (s *Sink) flush(ctx context.Context, batch []*sarama.ProducerMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.producer.SendMessages(batch); err != nil {
		return fmt.Errorf("publish batch: %w", err)
	}
	return nil
}
