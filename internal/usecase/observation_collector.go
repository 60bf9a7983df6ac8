package usecase

import (
	"context"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	"SentiPull/internal/engine"
	mid "SentiPull/internal/middleware"
	"SentiPull/pkg/util"
)

// RetryEnqueuer parks text items whose classification failed so a
// background worker can retry them later.
type RetryEnqueuer interface {
	Enqueue(ctx context.Context, item *models.TextItem) error
}

// ObservationCollector reads text items from a source, classifies them,
// feeds the sentiment engine, and hands observations to the pipeline.
type ObservationCollector struct {
	source     drepo.TextSource
	classifier drepo.Classifier
	eng        *engine.Engine
	metrics    drepo.Metrics
	pipe       *mid.IngestPipeline
	retry      RetryEnqueuer
	maxTextLen int
}

// NewObservationCollector creates a new ObservationCollector instance.
func NewObservationCollector(
	source drepo.TextSource,
	classifier drepo.Classifier,
	eng *engine.Engine,
	metrics drepo.Metrics,
	pipe *mid.IngestPipeline,
	retry RetryEnqueuer,
	maxTextLen int,
) *ObservationCollector {
	return &ObservationCollector{
		source:     source,
		classifier: classifier,
		eng:        eng,
		metrics:    metrics,
		pipe:       pipe,
		retry:      retry,
		maxTextLen: maxTextLen,
	}
}

// IsConnected returns true if the text source is connected.
func (c *ObservationCollector) IsConnected() bool {
	if c.source == nil {
		return false
	}
	return c.source.IsConnected()
}

func (c *ObservationCollector) Start(ctx context.Context) error {
	if c.source == nil {
		return nil
	}
	c.awaitClassifier(ctx)
	if err := c.source.Open(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	itemCh, errCh := c.source.Read(ctx)
	go c.consume(ctx, itemCh, errCh)
	return nil
}

// awaitClassifier waits for the inference service to report ready
// before the source starts producing. Ingestion proceeds either way
// after the attempts are exhausted; failed classifications go to the
// retry queue.
func (c *ObservationCollector) awaitClassifier(ctx context.Context) {
	const attempts = 10
	for i := 0; i < attempts; i++ {
		if c.classifier.Ready(ctx) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(3 * time.Second):
		}
	}
	c.metrics.RecordError("classifier_not_ready")
}

func (c *ObservationCollector) consume(ctx context.Context, itemCh <-chan *models.TextItem, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("source")
				_ = c.source.Reconnect(ctx)
			}
		case item := <-itemCh:
			if item == nil {
				continue
			}
			_, _ = c.Collect(ctx, item)
		}
	}
}

// Collect classifies one item and records the resulting observation.
// A failed classification records nothing; the window only ever sees
// labeled text.
func (c *ObservationCollector) Collect(ctx context.Context, item *models.TextItem) (*models.Classification, error) {
	text := util.Truncate(item.Text, c.maxTextLen)

	start := time.Now()
	res, err := c.classifier.Classify(ctx, text)
	c.metrics.RecordLatency("classify", time.Since(start).Seconds())
	if err != nil {
		c.metrics.RecordError("classify")
		if c.retry != nil {
			if qerr := c.retry.Enqueue(ctx, item); qerr != nil {
				c.metrics.RecordError("retry_enqueue")
			}
		}
		return nil, err
	}

	observedAt := time.Now().UTC()
	if err := c.eng.RecordObservation(res.Label, res.Confidence, observedAt); err != nil {
		c.metrics.RecordError("record")
		return nil, err
	}

	if c.pipe != nil {
		_ = c.pipe.Process(ctx, &models.Observation{
			ItemID:     item.ID,
			Source:     item.Source,
			Author:     item.Author,
			Text:       text,
			Label:      res.Label,
			Confidence: res.Confidence,
			ObservedAt: observedAt,
		})
	}
	return res, nil
}

func (c *ObservationCollector) Stop() error {
	if c.source == nil {
		return nil
	}
	return c.source.Close()
}

// Shutdown stops the pipeline and closes the source.
func (c *ObservationCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	if c.source == nil {
		return nil
	}
	return c.source.Close()
}
