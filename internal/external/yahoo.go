package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/compspread/comps-backend/internal/httputil"
)

const yahooBaseURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"

// Yahoo blocks requests without a browser-looking User-Agent.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Quote is the raw per-ticker data pulled from Yahoo Finance. nil means the
// field was absent from the response.
type Quote struct {
	Ticker            string
	MarketCap         *float64
	SharesOutstanding *float64
	TotalDebt         *float64
	TotalCash         *float64
	TotalRevenue      *float64
	Ebitda            *float64
	TrailingEps       *float64
	ForwardEps        *float64
	FetchedAt         time.Time
}

type YahooOptions struct {
	CacheTTL time.Duration
}

// YahooClient fetches quote summaries per ticker, with retry and a TTL cache
// so repeated analyses of the same names inside one session don't hammer the
// rate-limited endpoint.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig

	mu       sync.Mutex
	cache    map[string]*Quote
	cacheTTL time.Duration
}

func NewYahooClient(opts YahooOptions) *YahooClient {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &YahooClient{
		baseURL:    yahooBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      make(map[string]*Quote),
		cacheTTL:   ttl,
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

// quoteSummary response envelope. Every figure arrives as {"raw": n, "fmt": s};
// a missing pointer means Yahoo had no value.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				MarketCap rawValue `json:"marketCap"`
			} `json:"price"`
			FinancialData struct {
				TotalDebt    rawValue `json:"totalDebt"`
				TotalCash    rawValue `json:"totalCash"`
				TotalRevenue rawValue `json:"totalRevenue"`
				Ebitda       rawValue `json:"ebitda"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				SharesOutstanding rawValue `json:"sharesOutstanding"`
				TrailingEps       rawValue `json:"trailingEps"`
				ForwardEps        rawValue `json:"forwardEps"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetQuote returns the quote summary for one ticker, serving from cache when
// a fresh enough entry exists.
func (c *YahooClient) GetQuote(ctx context.Context, ticker string) (*Quote, error) {
	c.mu.Lock()
	if q, ok := c.cache[ticker]; ok && time.Since(q.FetchedAt) < c.cacheTTL {
		cached := *q
		c.mu.Unlock()
		return &cached, nil
	}
	c.mu.Unlock()

	addr := fmt.Sprintf("%s/%s?modules=%s",
		c.baseURL, url.PathEscape(ticker),
		url.QueryEscape("price,financialData,defaultKeyStatistics"))

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo: unknown ticker %s", ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo returned status %d for %s", resp.StatusCode, ticker)
	}

	var payload quoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ticker, err)
	}
	if e := payload.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("yahoo error for %s: %s", ticker, e.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: empty result for %s", ticker)
	}

	r := payload.QuoteSummary.Result[0]
	q := &Quote{
		Ticker:            ticker,
		MarketCap:         r.Price.MarketCap.Raw,
		SharesOutstanding: r.DefaultKeyStatistics.SharesOutstanding.Raw,
		TotalDebt:         r.FinancialData.TotalDebt.Raw,
		TotalCash:         r.FinancialData.TotalCash.Raw,
		TotalRevenue:      r.FinancialData.TotalRevenue.Raw,
		Ebitda:            r.FinancialData.Ebitda.Raw,
		TrailingEps:       r.DefaultKeyStatistics.TrailingEps.Raw,
		ForwardEps:        r.DefaultKeyStatistics.ForwardEps.Raw,
		FetchedAt:         time.Now(),
	}
	if q.MarketCap == nil {
		return nil, fmt.Errorf("yahoo: insufficient data for %s", ticker)
	}

	c.mu.Lock()
	c.cache[ticker] = q
	c.mu.Unlock()

	out := *q
	return &out, nil
}
