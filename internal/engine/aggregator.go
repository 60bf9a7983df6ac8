package engine

import (
	"math"

	"SentiPull/internal/domain/models"
)

// bullishThreshold bounds the neutral band: a side must hold strictly
// more than 60% of the window to win, so a ratio of exactly 0.6 is
// still NEUTRAL.
const bullishThreshold = 0.6

// Classify reduces a window snapshot to a market signal. Pure and
// deterministic; an empty snapshot yields the zero-valued NEUTRAL signal.
func Classify(snapshot []models.SentimentRecord) models.MarketSignal {
	if len(snapshot) == 0 {
		return models.MarketSignal{Signal: models.SignalNeutral}
	}

	positive := 0
	confSum := 0.0
	for _, rec := range snapshot {
		if rec.Label == models.LabelPositive {
			positive++
		}
		confSum += rec.Confidence
	}

	total := len(snapshot)
	positiveRatio := float64(positive) / float64(total)
	// Derived from positiveRatio rather than counted independently so the
	// two ratios sum to exactly 1.
	negativeRatio := 1.0 - positiveRatio

	var signal models.Signal
	var strength float64
	switch {
	case positiveRatio > bullishThreshold:
		signal = models.SignalBullish
		strength = positiveRatio
	case negativeRatio > bullishThreshold:
		signal = models.SignalBearish
		strength = negativeRatio
	default:
		signal = models.SignalNeutral
		strength = 1.0 - math.Abs(positiveRatio-negativeRatio)
	}

	return models.MarketSignal{
		Signal:        signal,
		Strength:      round4(strength),
		PositiveRatio: round4(positiveRatio),
		NegativeRatio: round4(negativeRatio),
		SampleSize:    total,
		AvgConfidence: round4(confSum / float64(total)),
	}
}

// Score maps a snapshot to the [-1, 1] sentiment gauge: -1 all negative,
// +1 all positive, 0 for an empty snapshot.
func Score(snapshot []models.SentimentRecord) float64 {
	if len(snapshot) == 0 {
		return 0
	}
	positive := 0
	for _, rec := range snapshot {
		if rec.Label == models.LabelPositive {
			positive++
		}
	}
	return float64(positive)/float64(len(snapshot))*2 - 1
}

// round4 rounds to 4 decimal places; applied only to externally reported
// values, after all intermediate math runs at full precision.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
