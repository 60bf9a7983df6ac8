package engine

import (
	"errors"
	"fmt"
	"sync"

	"SentiPull/internal/domain/models"
)

// DefaultCapacity matches the history depth of the original service.
const DefaultCapacity = 100

var (
	// ErrConfidenceRange rejects a record whose confidence is outside [0,1].
	ErrConfidenceRange = errors.New("confidence out of range [0,1]")
	// ErrUnknownLabel rejects a record whose label is not POSITIVE or NEGATIVE.
	ErrUnknownLabel = errors.New("unknown sentiment label")
)

// Window is a fixed-capacity FIFO ring of sentiment records. Appending to a
// full window evicts exactly the oldest record. A coarse mutex makes append
// and snapshot mutually exclusive so readers never observe a torn state.
type Window struct {
	mu      sync.Mutex
	records []models.SentimentRecord
	head    int // index of the oldest record
	count   int
}

// NewWindow creates a window with the given capacity. A non-positive
// capacity is a configuration error.
func NewWindow(capacity int) (*Window, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("window capacity must be >= 1, got %d", capacity)
	}
	return &Window{records: make([]models.SentimentRecord, capacity)}, nil
}

// Append inserts rec as the newest record, evicting the oldest when full.
// It rejects records that violate the classifier contract instead of
// letting them skew the aggregate.
func (w *Window) Append(rec models.SentimentRecord) error {
	if rec.Label != models.LabelPositive && rec.Label != models.LabelNegative {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, rec.Label)
	}
	if rec.Confidence < 0 || rec.Confidence > 1 {
		return fmt.Errorf("%w: %v", ErrConfidenceRange, rec.Confidence)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.count < len(w.records) {
		w.records[(w.head+w.count)%len(w.records)] = rec
		w.count++
		return nil
	}
	// Full: overwrite the oldest slot and advance the head. Insertion and
	// eviction happen under one lock acquisition.
	w.records[w.head] = rec
	w.head = (w.head + 1) % len(w.records)
	return nil
}

// Snapshot returns a point-in-time copy of the contents, oldest first.
// The copy is detached from the ring; later appends do not affect it.
func (w *Window) Snapshot() []models.SentimentRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]models.SentimentRecord, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.records[(w.head+i)%len(w.records)]
	}
	return out
}

// Size returns the current number of records.
func (w *Window) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Capacity returns the fixed maximum size.
func (w *Window) Capacity() int {
	return len(w.records)
}
