package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/compspread/comps-backend/internal/comps"
	"github.com/compspread/comps-backend/internal/models"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		writeError(w, http.StatusServiceUnavailable, "chat is disabled: no LLM configured")
		return
	}

	var req models.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text input is required")
		return
	}

	reply, err := s.chat.Analyze(r.Context(), req.Text, summarizeRecords(req.Context))
	if err != nil {
		fmt.Printf("[API] Chat failed: %v\n", err)
		writeError(w, http.StatusBadGateway, "chat reply could not be generated")
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

// summarizeRecords flattens table rows into one line per company for the LLM
// prompt. Missing values render as "-" so the model doesn't invent numbers.
func summarizeRecords(rows []comps.MetricRecord) []string {
	out := make([]string, 0, len(rows))
	for i := range rows {
		var parts []string
		for _, f := range comps.NumericFields {
			parts = append(parts, fmt.Sprintf("%s: %s", comps.FieldLabel(f), cellText(rows[i].Value(f))))
		}
		ticker := rows[i].Ticker
		if ticker == "" {
			ticker = "(unnamed)"
		}
		out = append(out, fmt.Sprintf("%s: %s", ticker, strings.Join(parts, ", ")))
	}
	return out
}

func cellText(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}
