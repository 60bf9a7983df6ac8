package models

import (
	"fmt"
	"time"
)

// Label is the binary classification emitted by the inference service.
// There is no per-item NEUTRAL label; neutrality only exists at the
// aggregate signal level.
type Label string

const (
	LabelPositive Label = "POSITIVE"
	LabelNegative Label = "NEGATIVE"
)

// ParseLabel validates and normalizes a label string.
func ParseLabel(s string) (Label, error) {
	switch Label(s) {
	case LabelPositive:
		return LabelPositive, nil
	case LabelNegative:
		return LabelNegative, nil
	default:
		return "", fmt.Errorf("unknown sentiment label %q", s)
	}
}

// SentimentRecord is one classified observation held in the window.
// Immutable once created; it leaves the window only by FIFO eviction.
type SentimentRecord struct {
	Label      Label     `json:"label"`
	Confidence float64   `json:"confidence"`
	ObservedAt time.Time `json:"observed_at"`
}

// Signal is the discrete market-sentiment classification.
type Signal string

const (
	SignalBullish Signal = "BULLISH"
	SignalBearish Signal = "BEARISH"
	SignalNeutral Signal = "NEUTRAL"
)

// MarketSignal is the aggregate derived from a window snapshot.
// The four derived ratios are rounded to 4 decimal places.
type MarketSignal struct {
	Signal        Signal  `json:"signal"`
	Strength      float64 `json:"strength"`
	PositiveRatio float64 `json:"positive_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`
	SampleSize    int     `json:"sample_size"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Classification is the raw result returned by the inference service.
type Classification struct {
	Label      Label
	Confidence float64
}

// TextItem is a raw text snippet pulled from an ingestion source before
// classification.
type TextItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Observation is a classified text item as it travels to the sinks.
// Text is truncated for storage; the full text never leaves the collector.
type Observation struct {
	ItemID     string    `json:"item_id"`
	Source     string    `json:"source"`
	Author     string    `json:"author,omitempty"`
	Text       string    `json:"text"`
	Label      Label     `json:"label"`
	Confidence float64   `json:"confidence"`
	ObservedAt time.Time `json:"observed_at"`
}
