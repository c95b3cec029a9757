package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/compspread/comps-backend/internal/analysis"
	"github.com/compspread/comps-backend/internal/comps"
	"github.com/compspread/comps-backend/internal/models"
	"github.com/compspread/comps-backend/internal/xlsx"
)

type stubAnalyzer struct {
	result *analysis.Result
	err    error
}

func (a *stubAnalyzer) Analyze(ctx context.Context, text string) (*analysis.Result, error) {
	return a.result, a.err
}

type stubChat struct {
	reply     string
	err       error
	summaries []string
}

func (c *stubChat) Analyze(ctx context.Context, question string, summaries []string) (string, error) {
	c.summaries = summaries
	return c.reply, c.err
}

func f(v float64) *float64 { return &v }

func testServer(analyzer Analyzer, chat ChatModel) *Server {
	return NewServer(nil, analyzer, chat, 0, "", "*")
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleAnalyzeSuccess(t *testing.T) {
	rows := []comps.MetricRecord{
		{Ticker: "AAPL", Revenue: f(100)},
		{Ticker: "MSFT", Revenue: f(300)},
	}
	s := testServer(&stubAnalyzer{result: &analysis.Result{
		Rows: rows, Tickers: []string{"AAPL", "MSFT"}, Method: analysis.MethodLLM,
	}}, nil)

	rr := postJSON(t, s, "/api/analyze", models.AnalysisRequest{Text: "apple vs microsoft"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp models.AnalysisResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ProcessedTickers != 2 || len(resp.Data) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.Contains(resp.Message, "LLM") {
		t.Fatalf("message should name the extraction method: %q", resp.Message)
	}
	if resp.Data[0].Ebitda != nil {
		t.Fatal("missing field must serialize as null, not zero")
	}
}

func TestHandleAnalyzeEmptyText(t *testing.T) {
	s := testServer(&stubAnalyzer{}, nil)

	rr := postJSON(t, s, "/api/analyze", models.AnalysisRequest{Text: "   "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleAnalyzeNoTickers(t *testing.T) {
	s := testServer(&stubAnalyzer{result: &analysis.Result{Method: analysis.MethodRegex}}, nil)

	rr := postJSON(t, s, "/api/analyze", models.AnalysisRequest{Text: "nothing in here"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp models.AnalysisResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 0 || resp.ProcessedTickers != 0 {
		t.Fatalf("expected empty data, got %+v", resp)
	}
	if !strings.Contains(resp.Message, "No valid tickers") {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestHandleAnalyzeUpstreamFailure(t *testing.T) {
	s := testServer(&stubAnalyzer{
		result: &analysis.Result{Tickers: []string{"AAPL"}},
		err:    analysis.ErrNoQuotes,
	}, nil)

	rr := postJSON(t, s, "/api/analyze", models.AnalysisRequest{Text: "AAPL"})
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
}

func TestHandleAnalyzeInternalError(t *testing.T) {
	s := testServer(&stubAnalyzer{err: errors.New("boom")}, nil)

	rr := postJSON(t, s, "/api/analyze", models.AnalysisRequest{Text: "AAPL"})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestHandleChat(t *testing.T) {
	chat := &stubChat{reply: "AAPL trades richer than MSFT on EV/EBITDA."}
	s := testServer(&stubAnalyzer{}, chat)

	rr := postJSON(t, s, "/api/chat", models.ChatRequest{
		Text:    "who is more expensive?",
		Context: []comps.MetricRecord{{Ticker: "AAPL", Revenue: f(100)}},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp models.ChatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != chat.reply {
		t.Fatalf("reply = %q", resp.Reply)
	}
	if len(chat.summaries) != 1 || !strings.HasPrefix(chat.summaries[0], "AAPL:") {
		t.Fatalf("unexpected summaries: %v", chat.summaries)
	}
	// missing values must show as "-" so the model doesn't invent numbers
	if !strings.Contains(chat.summaries[0], "Ebitda: -") {
		t.Fatalf("summary should mark missing values: %q", chat.summaries[0])
	}
}

func TestHandleChatWithoutLLM(t *testing.T) {
	s := testServer(&stubAnalyzer{}, nil)

	rr := postJSON(t, s, "/api/chat", models.ChatRequest{Text: "hello"})
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestHandleExport(t *testing.T) {
	s := testServer(&stubAnalyzer{}, nil)

	rr := postJSON(t, s, "/api/export", models.ExportRequest{
		Data: []comps.MetricRecord{
			{Ticker: "A", Revenue: f(100)},
			{Ticker: "B", Revenue: f(300)},
		},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, exportFilename) {
		t.Fatalf("content disposition = %q", cd)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a readable workbook: %v", err)
	}
	defer wb.Close()

	sheetRows, err := wb.GetRows(xlsx.SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// header + 2 body rows + median row
	if len(sheetRows) != 4 {
		t.Fatalf("workbook has %d rows, want 4", len(sheetRows))
	}
	last := sheetRows[len(sheetRows)-1]
	if last[0] != "Median" {
		t.Fatalf("median row label = %q", last[0])
	}
}

func TestHandleProjectsWithoutDatabase(t *testing.T) {
	s := testServer(&stubAnalyzer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rr := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestHandleRootAndTest(t *testing.T) {
	s := testServer(&stubAnalyzer{}, nil)

	for path, want := range map[string]string{
		"/":         "running",
		"/api/test": "API is working!",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), want) {
			t.Fatalf("%s: body %q missing %q", path, rr.Body.String(), want)
		}
	}
}

func TestHandleInvalidJSON(t *testing.T) {
	s := testServer(&stubAnalyzer{}, &stubChat{})

	for _, path := range []string{"/api/analyze", "/api/chat", "/api/export"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{not json"))
		rr := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", path, rr.Code)
		}
	}
}
