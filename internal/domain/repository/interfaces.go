package repository

import (
	"context"
	"time"

	"SentiPull/internal/domain/models"
)

// TextSource is a stream of raw text items from an external feed
// (subreddit listing poller, websocket firehose).
type TextSource interface {
	Open(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.TextItem, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Classifier is the external capability that labels a text snippet.
// A returned error means no observation may be recorded for the text.
type Classifier interface {
	Classify(ctx context.Context, text string) (*models.Classification, error)
	Ready(ctx context.Context) bool
}

// Publisher fans classified observations out to a message broker.
type Publisher interface {
	Publish(ctx context.Context, o *models.Observation) error
	PublishBatch(ctx context.Context, obs []*models.Observation) error
	Close() error
}

// Storage archives classified observations for offline analysis.
// The sentiment window itself is never persisted.
type Storage interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, o *models.Observation) error
	StoreBatch(ctx context.Context, obs []*models.Observation) error
	Query(ctx context.Context, source string, from, to time.Time, limit int) ([]*models.Observation, error)
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordRequest()
	RecordRequestLatency(seconds float64)
	RecordLabel(label models.Label)
	RecordSentimentScore(score float64)
	RecordWindowSize(n int)
	RecordMessageSent(backend, source string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
