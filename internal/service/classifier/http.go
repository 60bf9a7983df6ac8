package classifier

import (
	"context"
	"fmt"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	xhttp "SentiPull/pkg/http"
)

// HTTPClassifier calls the external inference service over HTTP. The model
// itself (loading, tokenization, inference) lives entirely on the other
// side of this client.
type HTTPClassifier struct {
	baseURL  string
	client   *xhttp.Client
	attempts int
}

// NewHTTP creates a classifier client for the given service URL.
func NewHTTP(baseURL string, timeout time.Duration, attempts int) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if attempts < 1 {
		attempts = 1
	}
	return &HTTPClassifier{
		baseURL:  baseURL,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		attempts: attempts,
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Classify posts the text to the inference service and validates the reply
// against the label/confidence contract before handing it to the caller.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (*models.Classification, error) {
	var resp analyzeResponse
	var err error
	for i := 1; i <= c.attempts; i++ {
		err = c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:  xhttp.MethodPost,
			URL:     c.baseURL + "/analyze",
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    analyzeRequest{Text: text},
		}, &resp)
		if err == nil {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	label, err := models.ParseLabel(resp.Sentiment)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return nil, fmt.Errorf("classify: confidence %v out of range", resp.Confidence)
	}

	return &models.Classification{Label: label, Confidence: resp.Confidence}, nil
}

// Ready probes the inference service health endpoint.
func (c *HTTPClassifier) Ready(ctx context.Context) bool {
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/health",
	}, nil)
	return err == nil
}

var _ drepo.Classifier = (*HTTPClassifier)(nil)
