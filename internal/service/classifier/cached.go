package classifier

import (
	"context"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	"SentiPull/pkg/cache"
)

// Cached wraps a Classifier with a cache keyed by text hash, so repeated
// snippets (common in chatty sources) skip a round trip to the model.
// Cache failures degrade to a direct call; they never fail a request.
type Cached struct {
	inner drepo.Classifier
	cache cache.Service
	ttl   time.Duration
}

type cachedResult struct {
	Label      models.Label `json:"label"`
	Confidence float64      `json:"confidence"`
}

// NewCached wraps inner with the given cache layer.
func NewCached(inner drepo.Classifier, c cache.Service, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cached{inner: inner, cache: c, ttl: ttl}
}

func (c *Cached) Classify(ctx context.Context, text string) (*models.Classification, error) {
	key := cache.GenerateKey("classify", cache.HashKey(text))

	var hit cachedResult
	if err := c.cache.Get(ctx, key, &hit); err == nil && hit.Label != "" {
		return &models.Classification{Label: hit.Label, Confidence: hit.Confidence}, nil
	}

	res, err := c.inner.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, key, cachedResult{Label: res.Label, Confidence: res.Confidence}, c.ttl)
	return res, nil
}

func (c *Cached) Ready(ctx context.Context) bool {
	return c.inner.Ready(ctx)
}

var _ drepo.Classifier = (*Cached)(nil)
