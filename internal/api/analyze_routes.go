package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/compspread/comps-backend/internal/analysis"
	"github.com/compspread/comps-backend/internal/comps"
	"github.com/compspread/comps-backend/internal/models"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text input is required")
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, analysis.ErrNoQuotes) {
			// Yahoo throttles aggressively; surface it as a rate limit so
			// clients back off instead of retrying immediately.
			writeError(w, http.StatusTooManyRequests, fmt.Sprintf(
				"failed to load market data for tickers: %s; this may be a rate limit, try again in a few minutes",
				strings.Join(res.Tickers, ", ")))
			return
		}
		fmt.Printf("[API] Analyze failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	if len(res.Rows) == 0 {
		writeJSON(w, http.StatusOK, models.AnalysisResponse{
			Data: []comps.MetricRecord{},
			Message: "No valid tickers found in the input text. Try mentioning specific " +
				"stock symbols (like AAPL, MSFT) or company names (like Apple, Microsoft).",
		})
		return
	}

	symbols := make([]string, len(res.Rows))
	for i, rec := range res.Rows {
		symbols[i] = rec.Ticker
	}

	writeJSON(w, http.StatusOK, models.AnalysisResponse{
		Data: res.Rows,
		Message: fmt.Sprintf("Successfully analyzed %d tickers using %s extraction: %s",
			len(res.Rows), res.Method, strings.Join(symbols, ", ")),
		ProcessedTickers: len(res.Rows),
	})
}
