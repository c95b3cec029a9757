package models

import "github.com/compspread/comps-backend/internal/comps"

type AnalysisRequest struct {
	Text  string   `json:"text"`
	Files []string `json:"files,omitempty"`
}

type AnalysisResponse struct {
	Data             []comps.MetricRecord `json:"data"`
	Message          string               `json:"message"`
	ProcessedTickers int                  `json:"processedTickers"`
}

type ChatRequest struct {
	Text    string               `json:"text"`
	Context []comps.MetricRecord `json:"context"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ExportRequest struct {
	Data []comps.MetricRecord `json:"data"`
}
