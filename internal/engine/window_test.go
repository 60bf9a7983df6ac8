package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
)

func rec(label models.Label, conf float64, sec int) models.SentimentRecord {
	return models.SentimentRecord{
		Label:      label,
		Confidence: conf,
		ObservedAt: time.Unix(int64(sec), 0),
	}
}

func TestNewWindowRejectsNonPositiveCapacity(t *testing.T) {
	if _, err := NewWindow(0); err == nil {
		t.Fatalf("expected error for capacity 0")
	}
	if _, err := NewWindow(-5); err == nil {
		t.Fatalf("expected error for negative capacity")
	}
}

func TestWindowFIFOEviction(t *testing.T) {
	w, err := NewWindow(3)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := w.Append(rec(models.LabelPositive, 0.9, i)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	if w.Size() != 3 {
		t.Fatalf("size = %d, want 3", w.Size())
	}
	snap := w.Snapshot()
	// last 3 appended survive, oldest first
	for i, want := range []int64{2, 3, 4} {
		if got := snap[i].ObservedAt.Unix(); got != want {
			t.Fatalf("snap[%d].ObservedAt = %d, want %d", i, got, want)
		}
	}
}

func TestWindowCapacityInvariantUnderChurn(t *testing.T) {
	w, _ := NewWindow(7)
	for i := 0; i < 100; i++ {
		if err := w.Append(rec(models.LabelNegative, 0.5, i)); err != nil {
			t.Fatalf("append: %v", err)
		}
		if w.Size() > 7 {
			t.Fatalf("size %d exceeded capacity after %d appends", w.Size(), i+1)
		}
	}
	if w.Size() != 7 {
		t.Fatalf("size = %d, want 7", w.Size())
	}
}

func TestWindowRejectsContractViolations(t *testing.T) {
	w, _ := NewWindow(2)

	if err := w.Append(rec(models.LabelPositive, 1.5, 0)); !errors.Is(err, ErrConfidenceRange) {
		t.Fatalf("confidence 1.5: got %v, want ErrConfidenceRange", err)
	}
	if err := w.Append(rec(models.LabelPositive, -0.1, 0)); !errors.Is(err, ErrConfidenceRange) {
		t.Fatalf("confidence -0.1: got %v, want ErrConfidenceRange", err)
	}
	if err := w.Append(rec(models.Label("MIXED"), 0.5, 0)); !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("label MIXED: got %v, want ErrUnknownLabel", err)
	}
	if w.Size() != 0 {
		t.Fatalf("rejected records must not be stored, size = %d", w.Size())
	}

	// boundary confidences are valid
	if err := w.Append(rec(models.LabelPositive, 0, 0)); err != nil {
		t.Fatalf("confidence 0: %v", err)
	}
	if err := w.Append(rec(models.LabelNegative, 1, 0)); err != nil {
		t.Fatalf("confidence 1: %v", err)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	w, _ := NewWindow(2)
	_ = w.Append(rec(models.LabelPositive, 0.8, 1))
	snap := w.Snapshot()

	_ = w.Append(rec(models.LabelNegative, 0.7, 2))
	_ = w.Append(rec(models.LabelNegative, 0.6, 3))

	if len(snap) != 1 || snap[0].Label != models.LabelPositive {
		t.Fatalf("snapshot mutated by later appends: %+v", snap)
	}
}

func TestWindowConcurrentAppendSnapshot(t *testing.T) {
	w, _ := NewWindow(10)
	var wg sync.WaitGroup

	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				_ = w.Append(rec(models.LabelPositive, 0.9, i))
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			snap := w.Snapshot()
			if len(snap) > 10 {
				t.Errorf("torn snapshot length %d", len(snap))
				return
			}
		}
	}()
	wg.Wait()

	if w.Size() != 10 {
		t.Fatalf("size = %d, want 10", w.Size())
	}
}
