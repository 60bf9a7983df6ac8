package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
)

type stubMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newStubMetrics() *stubMetrics { return &stubMetrics{errors: make(map[string]int)} }

func (m *stubMetrics) RecordRequest()                        {}
func (m *stubMetrics) RecordRequestLatency(float64)          {}
func (m *stubMetrics) RecordLabel(models.Label)              {}
func (m *stubMetrics) RecordSentimentScore(float64)          {}
func (m *stubMetrics) RecordWindowSize(int)                  {}
func (m *stubMetrics) RecordMessageSent(_, _ string)         {}
func (m *stubMetrics) RecordLatency(_ string, _ float64)     {}
func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *stubMetrics) errorCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

type stubProc struct {
	mu   sync.Mutex
	got  []*models.Observation
	fail bool
}

func (p *stubProc) Process(_ context.Context, o *models.Observation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("sink down")
	}
	p.got = append(p.got, o)
	return nil
}

func (p *stubProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

func obs(id string) *models.Observation {
	return &models.Observation{
		ItemID:     id,
		Source:     "test",
		Text:       "text",
		Label:      models.LabelPositive,
		Confidence: 0.9,
		ObservedAt: time.Now(),
	}
}

func TestPipelineForwardsValidObservation(t *testing.T) {
	proc := &stubProc{}
	p := NewIngestPipeline(proc, newStubMetrics(), WithMaxRPS(1000))

	if err := p.Process(context.Background(), obs("a")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 forwarded, got %d", proc.count())
	}
}

func TestPipelineRejectsInvalid(t *testing.T) {
	proc := &stubProc{}
	m := newStubMetrics()
	p := NewIngestPipeline(proc, m)

	bad := []*models.Observation{
		nil,
		{Source: "test", Label: models.LabelPositive, Confidence: 0.5, ObservedAt: time.Now()},          // no id
		{ItemID: "x", Source: "test", Label: "MIXED", Confidence: 0.5, ObservedAt: time.Now()},          // bad label
		{ItemID: "x", Source: "test", Label: models.LabelPositive, Confidence: 1.5, ObservedAt: time.Now()}, // bad confidence
	}
	for i, o := range bad {
		if err := p.Process(context.Background(), o); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if proc.count() != 0 {
		t.Fatalf("invalid observations must not be forwarded")
	}
	if m.errorCount("pipeline_validate") != len(bad) {
		t.Fatalf("expected %d validation errors, got %d", len(bad), m.errorCount("pipeline_validate"))
	}
}

func TestPipelineBuffersOnSinkError(t *testing.T) {
	proc := &stubProc{fail: true}
	m := newStubMetrics()
	p := NewIngestPipeline(proc, m, WithBufferSize(10), WithMaxRPS(1000))

	if err := p.Process(context.Background(), obs("a")); err == nil {
		t.Fatalf("expected downstream error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("expected observation buffered, got %d", len(p.bufCh))
	}
	if m.errorCount("pipeline_process") != 1 {
		t.Fatalf("expected process error recorded")
	}
}

func TestPipelineThrottlesPerSource(t *testing.T) {
	proc := &stubProc{}
	m := newStubMetrics()
	p := NewIngestPipeline(proc, m, WithMaxRPS(1))

	// First passes, burst beyond bucket capacity gets dropped silently.
	for i := 0; i < 5; i++ {
		if err := p.Process(context.Background(), obs(fmt.Sprintf("i%d", i))); err != nil {
			t.Fatalf("process %d: %v", i, err)
		}
	}
	if proc.count() >= 5 {
		t.Fatalf("expected throttling to drop some observations, forwarded %d", proc.count())
	}
	if m.errorCount("pipeline_throttle") == 0 {
		t.Fatalf("expected throttle drops recorded")
	}
}
