package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
	"SentiPull/internal/engine"
)

type fakeClassifier struct {
	lastText string
	res      *models.Classification
	err      error
}

func (f *fakeClassifier) Classify(_ context.Context, text string) (*models.Classification, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func (f *fakeClassifier) Ready(_ context.Context) bool { return f.err == nil }

type fakeRetry struct {
	items []*models.TextItem
}

func (f *fakeRetry) Enqueue(_ context.Context, item *models.TextItem) error {
	f.items = append(f.items, item)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordRequest()                    {}
func (nopMetrics) RecordRequestLatency(float64)      {}
func (nopMetrics) RecordLabel(models.Label)          {}
func (nopMetrics) RecordSentimentScore(float64)      {}
func (nopMetrics) RecordWindowSize(int)              {}
func (nopMetrics) RecordMessageSent(_, _ string)     {}
func (nopMetrics) RecordError(string)                {}
func (nopMetrics) RecordLatency(_ string, _ float64) {}

func item(id, text string) *models.TextItem {
	return &models.TextItem{ID: id, Text: text, Source: "test", CreatedAt: time.Now()}
}

func TestCollectRecordsObservation(t *testing.T) {
	eng, _ := engine.New(10, nil)
	cls := &fakeClassifier{res: &models.Classification{Label: models.LabelNegative, Confidence: 0.85}}
	c := NewObservationCollector(nil, cls, eng, nopMetrics{}, nil, nil, 512)

	res, err := c.Collect(context.Background(), item("a", "we are so back"))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if res.Label != models.LabelNegative {
		t.Fatalf("unexpected label %s", res.Label)
	}
	if eng.Size() != 1 {
		t.Fatalf("expected window size 1, got %d", eng.Size())
	}
	total, _, neg := eng.Totals()
	if total != 1 || neg != 1 {
		t.Fatalf("unexpected totals total=%d neg=%d", total, neg)
	}
}

func TestCollectTruncatesText(t *testing.T) {
	eng, _ := engine.New(10, nil)
	cls := &fakeClassifier{res: &models.Classification{Label: models.LabelPositive, Confidence: 0.5}}
	c := NewObservationCollector(nil, cls, eng, nopMetrics{}, nil, nil, 8)

	if _, err := c.Collect(context.Background(), item("a", "this text is longer than eight runes")); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(cls.lastText) != 8 {
		t.Fatalf("expected classifier to see 8 runes, got %d (%q)", len(cls.lastText), cls.lastText)
	}
}

func TestCollectEnqueuesRetryOnClassifyFailure(t *testing.T) {
	eng, _ := engine.New(10, nil)
	cls := &fakeClassifier{err: fmt.Errorf("model loading")}
	retry := &fakeRetry{}
	c := NewObservationCollector(nil, cls, eng, nopMetrics{}, nil, retry, 512)

	if _, err := c.Collect(context.Background(), item("a", "text")); err == nil {
		t.Fatalf("expected classify error")
	}
	if eng.Size() != 0 {
		t.Fatalf("failed classification must record nothing")
	}
	if len(retry.items) != 1 || retry.items[0].ID != "a" {
		t.Fatalf("expected item parked for retry, got %+v", retry.items)
	}
}
