package usecase

import (
	"context"
	"encoding/json"
	"time"

	"SentiPull/internal/domain/models"
	domrepo "SentiPull/internal/domain/repository"
	pkgkafka "SentiPull/pkg/kafka"
)

// KafkaObservationsHandler consumes observation messages from Kafka and
// archives them to storage.
type KafkaObservationsHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaObservationsHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaObservationsHandler {
	return &KafkaObservationsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaObservationsHandler) Topic() string { return h.topic }

func (h *KafkaObservationsHandler) Handle(ctx context.Context, b []byte) error {
	var o models.Observation
	if err := json.Unmarshal(b, &o); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if o.Label != models.LabelPositive && o.Label != models.LabelNegative {
		h.metrics.RecordError("consumer_label")
		return nil // poison message, do not retry
	}
	// E2E latency from observation time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(o.ObservedAt).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &o)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordMessageSent("clickhouse", o.Source)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaObservationsHandler)(nil)
