package classifier

import (
	"context"
	"fmt"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
	"SentiPull/pkg/cache"
)

type countingClassifier struct {
	calls int
	res   *models.Classification
	err   error
}

func (c *countingClassifier) Classify(_ context.Context, _ string) (*models.Classification, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.res, nil
}

func (c *countingClassifier) Ready(_ context.Context) bool { return true }

func TestCachedClassifyHitsCache(t *testing.T) {
	inner := &countingClassifier{res: &models.Classification{Label: models.LabelPositive, Confidence: 0.9}}
	cached := NewCached(inner, cache.NewMemoryCache(), time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		res, err := cached.Classify(ctx, "same text")
		if err != nil {
			t.Fatalf("classify %d: %v", i, err)
		}
		if res.Label != models.LabelPositive || res.Confidence != 0.9 {
			t.Fatalf("unexpected result %+v", res)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestCachedClassifyDistinctTexts(t *testing.T) {
	inner := &countingClassifier{res: &models.Classification{Label: models.LabelNegative, Confidence: 0.7}}
	cached := NewCached(inner, cache.NewMemoryCache(), time.Minute)

	ctx := context.Background()
	if _, err := cached.Classify(ctx, "first"); err != nil {
		t.Fatalf("classify: %v", err)
	}
	if _, err := cached.Classify(ctx, "second"); err != nil {
		t.Fatalf("classify: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 inner calls, got %d", inner.calls)
	}
}

func TestCachedClassifyPropagatesError(t *testing.T) {
	inner := &countingClassifier{err: fmt.Errorf("service down")}
	cached := NewCached(inner, cache.NewMemoryCache(), time.Minute)

	if _, err := cached.Classify(context.Background(), "text"); err == nil {
		t.Fatalf("expected error from inner classifier")
	}
}
