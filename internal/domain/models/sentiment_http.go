package models

// Requests for sentiment HTTP endpoints. Defined in domain for consistency and reuse.

type AnalyzeRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=10000"`
	Source string `json:"source" default:"api" validate:"max=64"`
}

type AnalyzeResponse struct {
	Sentiment  Label   `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

type HistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"25" validate:"gte=1,lte=1000"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	Service         string `json:"service"`
	ClassifierReady bool   `json:"classifier_ready"`
	SourceConnected bool   `json:"source_connected"`
	WindowSize      int    `json:"window_size"`
	TotalObserved   uint64 `json:"total_observed"`
}
