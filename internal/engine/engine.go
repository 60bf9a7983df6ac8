package engine

import (
	"sync"
	"time"

	"SentiPull/internal/domain/models"
	"SentiPull/internal/domain/repository"
)

// Engine owns the sentiment window plus the lifetime counters. It is
// constructed explicitly and handed to the transports; there is no
// package-level state.
//
// The lifetime counters are intentionally separate from the window: the
// window evicts, the counters never decrease, and total always equals
// positiveTotal + negativeTotal.
type Engine struct {
	window *Window

	mu            sync.Mutex
	total         uint64
	positiveTotal uint64
	negativeTotal uint64

	metrics repository.Metrics
}

// New creates an engine with a window of the given capacity.
// metrics may be nil (tests).
func New(capacity int, metrics repository.Metrics) (*Engine, error) {
	w, err := NewWindow(capacity)
	if err != nil {
		return nil, err
	}
	return &Engine{window: w, metrics: metrics}, nil
}

// RecordObservation validates and appends one classified observation,
// updating lifetime counters and the metrics sink. A rejected record
// leaves every piece of state untouched.
func (e *Engine) RecordObservation(label models.Label, confidence float64, observedAt time.Time) error {
	if err := e.window.Append(models.SentimentRecord{
		Label:      label,
		Confidence: confidence,
		ObservedAt: observedAt,
	}); err != nil {
		return err
	}

	e.mu.Lock()
	e.total++
	if label == models.LabelPositive {
		e.positiveTotal++
	} else {
		e.negativeTotal++
	}
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.RecordLabel(label)
		snap := e.window.Snapshot()
		e.metrics.RecordSentimentScore(Score(snap))
		e.metrics.RecordWindowSize(len(snap))
	}
	return nil
}

// MarketSignal reduces a consistent snapshot of the window to a signal.
func (e *Engine) MarketSignal() models.MarketSignal {
	return Classify(e.window.Snapshot())
}

// History returns up to limit records, newest first.
func (e *Engine) History(limit int) []models.SentimentRecord {
	snap := e.window.Snapshot()
	// reverse to newest-first for display
	for i, j := 0, len(snap)-1; i < j; i, j = i+1, j-1 {
		snap[i], snap[j] = snap[j], snap[i]
	}
	if limit > 0 && limit < len(snap) {
		snap = snap[:limit]
	}
	return snap
}

// Score returns the window's sentiment score in [-1, 1], 0 when empty.
func (e *Engine) Score() float64 {
	return Score(e.window.Snapshot())
}

// Size returns the current window size.
func (e *Engine) Size() int {
	return e.window.Size()
}

// Totals returns the lifetime counters: total, positive, negative.
func (e *Engine) Totals() (uint64, uint64, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total, e.positiveTotal, e.negativeTotal
}
