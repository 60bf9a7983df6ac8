package engine

import (
	"testing"
	"time"

	"SentiPull/internal/domain/models"
)

func TestEngineLifetimeCountersSurviveEviction(t *testing.T) {
	e, err := New(10, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	// N+5 observations: window caps at 10, counters keep counting
	now := time.Now()
	for i := 0; i < 15; i++ {
		label := models.LabelPositive
		if i%3 == 0 {
			label = models.LabelNegative
		}
		if err := e.RecordObservation(label, 0.9, now); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	total, pos, neg := e.Totals()
	if total != 15 {
		t.Fatalf("total = %d, want 15", total)
	}
	if pos != 10 || neg != 5 {
		t.Fatalf("pos/neg = %d/%d, want 10/5", pos, neg)
	}
	if total != pos+neg {
		t.Fatalf("counter invariant broken: %d != %d + %d", total, pos, neg)
	}

	sig := e.MarketSignal()
	if sig.SampleSize != 10 {
		t.Fatalf("sample_size = %d, want window capacity 10", sig.SampleSize)
	}
}

func TestEngineRejectedObservationLeavesStateUntouched(t *testing.T) {
	e, _ := New(5, nil)
	if err := e.RecordObservation(models.LabelPositive, 0.7, time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := e.RecordObservation(models.Label("SPAM"), 0.7, time.Now()); err == nil {
		t.Fatalf("expected rejection for unknown label")
	}
	if err := e.RecordObservation(models.LabelNegative, 7, time.Now()); err == nil {
		t.Fatalf("expected rejection for confidence 7")
	}

	total, pos, neg := e.Totals()
	if total != 1 || pos != 1 || neg != 0 {
		t.Fatalf("totals after rejections = %d/%d/%d, want 1/1/0", total, pos, neg)
	}
	if e.Size() != 1 {
		t.Fatalf("window size = %d, want 1", e.Size())
	}
}

func TestEngineScore(t *testing.T) {
	e, _ := New(10, nil)
	if got := e.Score(); got != 0 {
		t.Fatalf("empty window score = %v, want 0", got)
	}

	now := time.Now()
	for i := 0; i < 3; i++ {
		_ = e.RecordObservation(models.LabelPositive, 0.9, now)
	}
	_ = e.RecordObservation(models.LabelNegative, 0.9, now)

	// positive_ratio 0.75 -> score 0.5
	if got := e.Score(); got != 0.5 {
		t.Fatalf("score = %v, want 0.5", got)
	}
}

func TestEngineHistoryNewestFirst(t *testing.T) {
	e, _ := New(5, nil)
	for i := 0; i < 4; i++ {
		_ = e.RecordObservation(models.LabelPositive, 0.5, time.Unix(int64(i), 0))
	}

	hist := e.History(2)
	if len(hist) != 2 {
		t.Fatalf("len = %d, want 2", len(hist))
	}
	if hist[0].ObservedAt.Unix() != 3 || hist[1].ObservedAt.Unix() != 2 {
		t.Fatalf("history not newest-first: %v, %v", hist[0].ObservedAt.Unix(), hist[1].ObservedAt.Unix())
	}
}
