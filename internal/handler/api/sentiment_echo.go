package api

import (
	"errors"
	"fmt"
	"time"

	models "SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	"SentiPull/internal/engine"
	"SentiPull/internal/usecase"
	xhttp "SentiPull/pkg/http"
	xlogger "SentiPull/pkg/logger"
	"SentiPull/pkg/util"

	"github.com/labstack/echo/v4"
)

// SentimentEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type SentimentEchoHandler struct {
	logger     *xlogger.Logger
	eng        *engine.Engine
	classifier drepo.Classifier
	collector  *usecase.ObservationCollector
	metrics    drepo.Metrics
	storage    drepo.Storage // nil unless the clickhouse backend is configured
}

func NewSentimentEchoHandler(
	logger *xlogger.Logger,
	eng *engine.Engine,
	classifier drepo.Classifier,
	collector *usecase.ObservationCollector,
	metrics drepo.Metrics,
	storage drepo.Storage,
) *SentimentEchoHandler {
	return &SentimentEchoHandler{
		logger:     logger,
		eng:        eng,
		classifier: classifier,
		collector:  collector,
		metrics:    metrics,
		storage:    storage,
	}
}

func (h *SentimentEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.GET("/market-signal", h.MarketSignal)
	g.GET("/history", h.History)
	g.GET("/archive", h.Archive)
	e.GET("/health", h.Health)
}

// Analyze classifies one text snippet and records the observation.
func (h *SentimentEchoHandler) Analyze(c echo.Context) error {
	start := time.Now()
	h.metrics.RecordRequest()
	defer func() { h.metrics.RecordRequestLatency(time.Since(start).Seconds()) }()

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	item := &models.TextItem{
		ID:        fmt.Sprintf("api-%d", time.Now().UnixNano()),
		Text:      req.Text,
		Source:    req.Source,
		CreatedAt: time.Now().UTC(),
	}

	res, err := h.collector.Collect(c.Request().Context(), item)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownLabel) || errors.Is(err, engine.ErrConfidenceRange) {
			h.logger.Warn("analyze contract violation", xlogger.Error(err))
			return xhttp.BadRequestResponse(c, err.Error())
		}
		h.logger.Error("analyze classify error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("classification failed").WithError(err))
	}

	return xhttp.SuccessResponse(c, &models.AnalyzeResponse{
		Sentiment:  res.Label,
		Confidence: res.Confidence,
	})
}

// MarketSignal returns the aggregate over the current window.
func (h *SentimentEchoHandler) MarketSignal(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.eng.MarketSignal())
}

// History returns the most recent window records, newest first.
func (h *SentimentEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.eng.History(req.Limit))
}

// Archive queries persisted observations from the configured storage.
// Only available with the clickhouse backend.
func (h *SentimentEchoHandler) Archive(c echo.Context) error {
	if h.storage == nil {
		return xhttp.NotFoundResponse(c, "archive requires the clickhouse backend")
	}
	source := c.QueryParam("source")
	if source == "" {
		return xhttp.BadRequestResponse(c, "source is required")
	}
	now := time.Now().UTC()
	from := util.ParseTimeDefault(c.QueryParam("from"), now.Add(-24*time.Hour))
	to := util.ParseTimeDefault(c.QueryParam("to"), now)
	limit := util.ParseIntDefault(c.QueryParam("limit"), 100)

	obs, err := h.storage.Query(c.Request().Context(), source, from, to, limit)
	if err != nil {
		h.logger.Error("archive query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("archive query failed").WithError(err))
	}
	return xhttp.ListResponse(c, obs, int64(len(obs)))
}

// Health reports service readiness.
func (h *SentimentEchoHandler) Health(c echo.Context) error {
	total, _, _ := h.eng.Totals()
	status := "ok"
	ready := h.classifier.Ready(c.Request().Context())
	if !ready {
		status = "degraded"
	}
	return xhttp.SuccessResponse(c, &models.HealthResponse{
		Status:          status,
		Service:         "sentipull",
		ClassifierReady: ready,
		SourceConnected: h.collector.IsConnected(),
		WindowSize:      h.eng.Size(),
		TotalObserved:   total,
	})
}
