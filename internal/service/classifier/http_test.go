package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
)

func TestHTTPClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Text != "stocks only go up" {
			t.Fatalf("unexpected text %q", req.Text)
		}
		_ = json.NewEncoder(w).Encode(analyzeResponse{Sentiment: "POSITIVE", Confidence: 0.97})
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, 5*time.Second, 1)
	res, err := c.Classify(context.Background(), "stocks only go up")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Label != models.LabelPositive {
		t.Fatalf("expected POSITIVE, got %s", res.Label)
	}
	if res.Confidence != 0.97 {
		t.Fatalf("expected 0.97, got %v", res.Confidence)
	}
}

func TestHTTPClassifyRejectsUnknownLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(analyzeResponse{Sentiment: "MIXED", Confidence: 0.5})
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, 5*time.Second, 1)
	if _, err := c.Classify(context.Background(), "meh"); err == nil {
		t.Fatalf("expected error for unknown label")
	}
}

func TestHTTPClassifyRejectsConfidenceOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(analyzeResponse{Sentiment: "NEGATIVE", Confidence: 1.7})
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, 5*time.Second, 1)
	if _, err := c.Classify(context.Background(), "bad"); err == nil {
		t.Fatalf("expected error for out-of-range confidence")
	}
}

func TestHTTPClassifyRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(analyzeResponse{Sentiment: "NEGATIVE", Confidence: 0.8})
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, 5*time.Second, 3)
	res, err := c.Classify(context.Background(), "down bad")
	if err != nil {
		t.Fatalf("classify after retries: %v", err)
	}
	if res.Label != models.LabelNegative {
		t.Fatalf("expected NEGATIVE, got %s", res.Label)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestHTTPReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, 5*time.Second, 1)
	if !c.Ready(context.Background()) {
		t.Fatalf("expected ready")
	}

	srv.Close()
	if c.Ready(context.Background()) {
		t.Fatalf("expected not ready after server close")
	}
}
