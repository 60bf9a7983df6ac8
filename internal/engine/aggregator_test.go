package engine

import (
	"math"
	"reflect"
	"testing"

	"SentiPull/internal/domain/models"
)

func makeSnapshot(positive, negative int) []models.SentimentRecord {
	snap := make([]models.SentimentRecord, 0, positive+negative)
	for i := 0; i < positive; i++ {
		snap = append(snap, rec(models.LabelPositive, 0.9, i))
	}
	for i := 0; i < negative; i++ {
		snap = append(snap, rec(models.LabelNegative, 0.8, positive+i))
	}
	return snap
}

func TestClassifyEmptySnapshot(t *testing.T) {
	got := Classify(nil)
	want := models.MarketSignal{Signal: models.SignalNeutral}
	if got != want {
		t.Fatalf("Classify(nil) = %+v, want all-zero NEUTRAL", got)
	}
}

func TestClassifyBullish(t *testing.T) {
	got := Classify(makeSnapshot(7, 3))
	if got.Signal != models.SignalBullish {
		t.Fatalf("signal = %s, want BULLISH", got.Signal)
	}
	if got.PositiveRatio != 0.7 || got.Strength != 0.7 {
		t.Fatalf("positive_ratio = %v strength = %v, want 0.7/0.7", got.PositiveRatio, got.Strength)
	}
	if got.SampleSize != 10 {
		t.Fatalf("sample_size = %d, want 10", got.SampleSize)
	}
}

func TestClassifyBearish(t *testing.T) {
	got := Classify(makeSnapshot(2, 8))
	if got.Signal != models.SignalBearish {
		t.Fatalf("signal = %s, want BEARISH", got.Signal)
	}
	if got.NegativeRatio != 0.8 || got.Strength != 0.8 {
		t.Fatalf("negative_ratio = %v strength = %v, want 0.8/0.8", got.NegativeRatio, got.Strength)
	}
}

func TestClassifyThresholdBoundaryIsNeutral(t *testing.T) {
	// exactly 60% positive: strict > keeps this NEUTRAL
	got := Classify(makeSnapshot(6, 4))
	if got.Signal != models.SignalNeutral {
		t.Fatalf("signal = %s at 0.6 ratio, want NEUTRAL", got.Signal)
	}
	if got.Strength != 0.8 {
		t.Fatalf("strength = %v, want 1.0 - |0.6-0.4| = 0.8", got.Strength)
	}

	got = Classify(makeSnapshot(4, 6))
	if got.Signal != models.SignalNeutral {
		t.Fatalf("signal = %s at 0.6 negative ratio, want NEUTRAL", got.Signal)
	}
}

func TestClassifyTiedWindowStrength(t *testing.T) {
	// 50/50 keeps the original formula: strength = 1.0 - 0 = 1.0
	got := Classify(makeSnapshot(5, 5))
	if got.Signal != models.SignalNeutral || got.Strength != 1.0 {
		t.Fatalf("tied window: signal = %s strength = %v, want NEUTRAL/1.0", got.Signal, got.Strength)
	}
}

func TestClassifyRatioSum(t *testing.T) {
	for positive := 0; positive <= 7; positive++ {
		got := Classify(makeSnapshot(positive, 7-positive))
		if sum := got.PositiveRatio + got.NegativeRatio; math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("p=%d: ratio sum = %v, want 1.0", positive, sum)
		}
	}
}

func TestClassifyAvgConfidenceRounding(t *testing.T) {
	snap := []models.SentimentRecord{
		rec(models.LabelPositive, 0.33333, 0),
		rec(models.LabelPositive, 0.33333, 1),
		rec(models.LabelPositive, 0.33333, 2),
	}
	got := Classify(snap)
	if got.AvgConfidence != 0.3333 {
		t.Fatalf("avg_confidence = %v, want 0.3333", got.AvgConfidence)
	}
	if got.PositiveRatio != 1.0 || got.Signal != models.SignalBullish {
		t.Fatalf("all-positive snapshot misclassified: %+v", got)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	snap := makeSnapshot(3, 4)
	first := Classify(snap)
	second := Classify(snap)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classify drifted: %+v vs %+v", first, second)
	}
}

func TestScoreRange(t *testing.T) {
	if got := Score(nil); got != 0 {
		t.Fatalf("empty score = %v, want 0", got)
	}
	if got := Score(makeSnapshot(10, 0)); got != 1 {
		t.Fatalf("all-positive score = %v, want 1", got)
	}
	if got := Score(makeSnapshot(0, 10)); got != -1 {
		t.Fatalf("all-negative score = %v, want -1", got)
	}
	if got := Score(makeSnapshot(5, 5)); got != 0 {
		t.Fatalf("tied score = %v, want 0", got)
	}
}
