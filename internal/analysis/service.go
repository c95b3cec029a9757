// Package analysis turns free-text ticker input into derived comps rows:
// extract symbols (LLM first, regex fallback), fetch quotes, compute
// multiples.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/compspread/comps-backend/internal/comps"
	"github.com/compspread/comps-backend/internal/external"
	"github.com/compspread/comps-backend/internal/tickers"
)

// ErrNoQuotes means symbols were extracted but every quote fetch failed,
// usually a rate limit upstream.
var ErrNoQuotes = errors.New("no quotes could be fetched")

// TickerExtractor is the LLM seam; nil disables it.
type TickerExtractor interface {
	ExtractTickers(ctx context.Context, text string) ([]string, error)
}

// QuoteProvider is the market-data seam.
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) (*external.Quote, error)
}

const (
	MethodLLM   = "LLM"
	MethodRegex = "regex"
)

type Result struct {
	Rows    []comps.MetricRecord
	Tickers []string
	Method  string
}

type Service struct {
	extractor  TickerExtractor
	quotes     QuoteProvider
	maxTickers int
}

// NewService builds the pipeline. maxTickers caps the symbols processed per
// request regardless of extraction path; non-positive means the default.
func NewService(extractor TickerExtractor, quotes QuoteProvider, maxTickers int) *Service {
	if maxTickers <= 0 {
		maxTickers = tickers.MaxTickers
	}
	return &Service{extractor: extractor, quotes: quotes, maxTickers: maxTickers}
}

// Analyze runs the pipeline for one request. No extractable tickers is not an
// error: the result simply carries no rows. ErrNoQuotes is returned when
// extraction succeeded but the market-data side produced nothing.
func (s *Service) Analyze(ctx context.Context, text string) (*Result, error) {
	res := &Result{Method: MethodRegex}

	if s.extractor != nil {
		syms, err := s.extractor.ExtractTickers(ctx, text)
		if err != nil {
			fmt.Printf("[ANALYSIS] LLM extraction failed, falling back to regex: %v\n", err)
		} else if len(syms) > 0 {
			if len(syms) > s.maxTickers {
				syms = syms[:s.maxTickers]
			}
			res.Tickers = syms
			res.Method = MethodLLM
		}
	}
	if len(res.Tickers) == 0 {
		res.Tickers = tickers.ParseN(text, s.maxTickers)
		res.Method = MethodRegex
	}
	if len(res.Tickers) == 0 {
		return res, nil
	}

	for _, sym := range res.Tickers {
		q, err := s.quotes.GetQuote(ctx, sym)
		if err != nil {
			fmt.Printf("[ANALYSIS] Skipping %s: %v\n", sym, err)
			continue
		}
		res.Rows = append(res.Rows, recordFromQuote(q))
	}

	if len(res.Rows) == 0 {
		return res, fmt.Errorf("%w (tickers: %v)", ErrNoQuotes, res.Tickers)
	}
	return res, nil
}

func recordFromQuote(q *external.Quote) comps.MetricRecord {
	rec := comps.MetricRecord{
		Ticker:            q.Ticker,
		MarketCap:         q.MarketCap,
		SharesOutstanding: q.SharesOutstanding,
		Debt:              q.TotalDebt,
		Cash:              q.TotalCash,
		Revenue:           q.TotalRevenue,
		Ebitda:            q.Ebitda,
		Eps:               q.TrailingEps,
	}
	return comps.DeriveMultiples(rec, q.ForwardEps)
}
