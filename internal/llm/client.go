// Package llm wraps the Gemini API for the two jobs the backend needs:
// pulling ticker symbols out of natural language and answering questions
// about a comps table.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultExtractModel = "gemini-2.0-flash"
	DefaultChatModel    = "gemini-2.0-flash"

	maxTickers = 10
)

type Client struct {
	gc           *genai.Client
	extractModel string
	chatModel    string
}

// New initializes the Gemini client. An empty API key is an error; callers
// decide whether to run without the LLM (regex fallback) or refuse to start.
func New(ctx context.Context, apiKey, extractModel, chatModel string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: API key is required")
	}
	if extractModel == "" {
		extractModel = DefaultExtractModel
	}
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: init client: %w", err)
	}

	return &Client{gc: gc, extractModel: extractModel, chatModel: chatModel}, nil
}

const extractSystemPrompt = `You are a financial analyst assistant that extracts stock ticker symbols from user queries.

Identify all companies mentioned directly or indirectly and convert company names to their official US exchange ticker symbols (Apple -> AAPL, Microsoft -> MSFT).

Return a JSON object with a "tickers" array containing ONLY official ticker symbols, 1-5 uppercase letters each, at most 10. If none are found return {"tickers": []}.

Examples:
"Compare Apple and Microsoft" -> {"tickers": ["AAPL", "MSFT"]}
"What's the valuation of NVDA vs AMD?" -> {"tickers": ["NVDA", "AMD"]}
"Tesla compared to Ford and GM" -> {"tickers": ["TSLA", "F", "GM"]}`

// ExtractTickers asks the model for the tickers mentioned in text. The reply
// is requested as JSON and validated; a garbled reply yields an empty slice
// and no error, so the caller falls back to regex parsing.
func (c *Client) ExtractTickers(ctx context.Context, text string) ([]string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0.1),
		MaxOutputTokens:   200,
		ResponseMIMEType:  "application/json",
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: extractSystemPrompt}}},
	}

	prompt := fmt.Sprintf("Extract stock tickers from this text: %q", text)
	resp, err := c.gc.Models.GenerateContent(ctx, c.extractModel, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("llm: extract tickers: %w", err)
	}

	reply, err := firstText(resp)
	if err != nil {
		return nil, err
	}
	return parseTickerReply(reply), nil
}

const chatSystemPrompt = `You are a financial analyst expert specializing in comparative company analysis.

Analyze the provided financial data, be specific with numbers and ratios, explain what the metrics mean in business terms, and highlight significant differences between companies. Keep responses focused and informative.`

// Analyze answers question against the provided per-company data summaries.
func (c *Client) Analyze(ctx context.Context, question string, summaries []string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0.3),
		MaxOutputTokens:   500,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: chatSystemPrompt}}},
	}

	prompt := fmt.Sprintf(
		"Financial data for analysis:\n%s\n\nQuestion: %s\n\nAnswer the question using the metrics above and give context for what the numbers mean.",
		strings.Join(summaries, "\n"), question)

	resp, err := c.gc.Models.GenerateContent(ctx, c.chatModel, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("llm: analyze: %w", err)
	}
	return firstText(resp)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}

// parseTickerReply decodes a {"tickers": [...]} reply and keeps only entries
// that look like real symbols: alphabetic, at most 5 characters, uppercased.
func parseTickerReply(reply string) []string {
	var parsed struct {
		Tickers []string `json:"tickers"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		fmt.Printf("[LLM] Unparseable ticker reply: %q\n", reply)
		return nil
	}

	var out []string
	for _, t := range parsed.Tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || len(t) > 5 || !isAlpha(t) {
			continue
		}
		out = append(out, t)
		if len(out) == maxTickers {
			break
		}
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
