package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
	"SentiPull/internal/engine"
	"SentiPull/internal/usecase"
	xlogger "SentiPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

type fixedClassifier struct {
	label models.Label
	conf  float64
	err   error
	ready bool
}

func (c *fixedClassifier) Classify(_ context.Context, _ string) (*models.Classification, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &models.Classification{Label: c.label, Confidence: c.conf}, nil
}

func (c *fixedClassifier) Ready(_ context.Context) bool { return c.ready }

type nopMetrics struct{}

func (nopMetrics) RecordRequest()                    {}
func (nopMetrics) RecordRequestLatency(float64)      {}
func (nopMetrics) RecordLabel(models.Label)          {}
func (nopMetrics) RecordSentimentScore(float64)      {}
func (nopMetrics) RecordWindowSize(int)              {}
func (nopMetrics) RecordMessageSent(_, _ string)     {}
func (nopMetrics) RecordError(string)                {}
func (nopMetrics) RecordLatency(_ string, _ float64) {}

func newTestHandler(t *testing.T, cls *fixedClassifier) (*SentimentEchoHandler, *engine.Engine) {
	t.Helper()
	eng, err := engine.New(100, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	collector := usecase.NewObservationCollector(nil, cls, eng, nopMetrics{}, nil, nil, 512)
	return NewSentimentEchoHandler(l, eng, cls, collector, nopMetrics{}, nil), eng
}

type apiEnvelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var env apiEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return rec, env
}

func TestAnalyzeRecordsObservation(t *testing.T) {
	h, eng := newTestHandler(t, &fixedClassifier{label: models.LabelPositive, conf: 0.92, ready: true})

	_, env := doJSON(t, h.Analyze, http.MethodPost, "/api/analyze", `{"text":"to the moon"}`)
	if env.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", env.Status)
	}

	var resp models.AnalyzeResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if resp.Sentiment != models.LabelPositive || resp.Confidence != 0.92 {
		t.Fatalf("unexpected response %+v", resp)
	}

	if eng.Size() != 1 {
		t.Fatalf("expected observation recorded, window size %d", eng.Size())
	}
	total, pos, neg := eng.Totals()
	if total != 1 || pos != 1 || neg != 0 {
		t.Fatalf("unexpected totals %d/%d/%d", total, pos, neg)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	h, eng := newTestHandler(t, &fixedClassifier{label: models.LabelPositive, conf: 0.9, ready: true})

	_, env := doJSON(t, h.Analyze, http.MethodPost, "/api/analyze", `{"text":""}`)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty text, got %d", env.Status)
	}
	if eng.Size() != 0 {
		t.Fatalf("rejected request must not touch the window")
	}
}

func TestAnalyzeClassifierFailure(t *testing.T) {
	h, eng := newTestHandler(t, &fixedClassifier{err: fmt.Errorf("connection refused")})

	_, env := doJSON(t, h.Analyze, http.MethodPost, "/api/analyze", `{"text":"anything"}`)
	if env.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500 when classifier down, got %d", env.Status)
	}
	if eng.Size() != 0 {
		t.Fatalf("failed classification must record nothing")
	}
}

func TestAnalyzeContractViolation(t *testing.T) {
	h, eng := newTestHandler(t, &fixedClassifier{label: models.LabelNegative, conf: 1.3, ready: true})

	_, env := doJSON(t, h.Analyze, http.MethodPost, "/api/analyze", `{"text":"anything"}`)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 for confidence out of range, got %d", env.Status)
	}
	if eng.Size() != 0 {
		t.Fatalf("violating observation must record nothing")
	}
}

func TestMarketSignalEmptyWindow(t *testing.T) {
	h, _ := newTestHandler(t, &fixedClassifier{ready: true})

	_, env := doJSON(t, h.MarketSignal, http.MethodGet, "/api/market-signal", "")
	var sig models.MarketSignal
	if err := json.Unmarshal(env.Data, &sig); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if sig.Signal != models.SignalNeutral || sig.SampleSize != 0 || sig.Strength != 0 {
		t.Fatalf("empty window must yield zero NEUTRAL, got %+v", sig)
	}
}

func TestMarketSignalAfterObservations(t *testing.T) {
	h, eng := newTestHandler(t, &fixedClassifier{ready: true})
	now := time.Now()
	for i := 0; i < 7; i++ {
		if err := eng.RecordObservation(models.LabelPositive, 0.9, now); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := eng.RecordObservation(models.LabelNegative, 0.8, now); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	_, env := doJSON(t, h.MarketSignal, http.MethodGet, "/api/market-signal", "")
	var sig models.MarketSignal
	if err := json.Unmarshal(env.Data, &sig); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if sig.Signal != models.SignalBullish {
		t.Fatalf("expected BULLISH, got %s", sig.Signal)
	}
	if sig.PositiveRatio != 0.7 || sig.NegativeRatio != 0.3 {
		t.Fatalf("unexpected ratios %v/%v", sig.PositiveRatio, sig.NegativeRatio)
	}
	if sig.SampleSize != 10 {
		t.Fatalf("expected sample size 10, got %d", sig.SampleSize)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	h, eng := newTestHandler(t, &fixedClassifier{ready: true})
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := eng.RecordObservation(models.LabelPositive, 0.9, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	_, env := doJSON(t, h.History, http.MethodGet, "/api/history?limit=3", "")
	var recs []models.SentimentRecord
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if !recs[0].ObservedAt.After(recs[1].ObservedAt) {
		t.Fatalf("expected newest first")
	}
}

func TestHealth(t *testing.T) {
	h, eng := newTestHandler(t, &fixedClassifier{label: models.LabelPositive, conf: 0.9, ready: true})
	if err := eng.RecordObservation(models.LabelPositive, 0.9, time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}

	_, env := doJSON(t, h.Health, http.MethodGet, "/health", "")
	var hr models.HealthResponse
	if err := json.Unmarshal(env.Data, &hr); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if hr.Status != "ok" || !hr.ClassifierReady {
		t.Fatalf("unexpected health %+v", hr)
	}
	if hr.WindowSize != 1 || hr.TotalObserved != 1 {
		t.Fatalf("unexpected counts %+v", hr)
	}
	if hr.Service != "sentipull" {
		t.Fatalf("unexpected service name %q", hr.Service)
	}
}

func TestHealthDegradedWhenClassifierDown(t *testing.T) {
	h, _ := newTestHandler(t, &fixedClassifier{ready: false})

	_, env := doJSON(t, h.Health, http.MethodGet, "/health", "")
	var hr models.HealthResponse
	if err := json.Unmarshal(env.Data, &hr); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if hr.Status != "degraded" || hr.ClassifierReady {
		t.Fatalf("expected degraded health, got %+v", hr)
	}
}
