package comps

import (
	"math"
	"strconv"
	"strings"
)

// Field identifies one column of the comps table by its wire name.
type Field string

const (
	FieldTicker            Field = "ticker"
	FieldMarketCap         Field = "marketCap"
	FieldSharesOutstanding Field = "sharesOutstanding"
	FieldDebt              Field = "debt"
	FieldCash              Field = "cash"
	FieldRevenue           Field = "revenue"
	FieldEbitda            Field = "ebitda"
	FieldEps               Field = "eps"
	FieldEv                Field = "ev"
	FieldEvRevenueLTM      Field = "evRevenueLTM"
	FieldEvEbitdaLTM       Field = "evEbitdaLTM"
	FieldEvEbitdaNTM       Field = "evEbitdaNTM"
	FieldPeLTM             Field = "peLTM"
	FieldPeNTM             Field = "peNTM"
)

// NumericFields fixes the column order for display, medians and export.
var NumericFields = []Field{
	FieldMarketCap,
	FieldSharesOutstanding,
	FieldDebt,
	FieldCash,
	FieldRevenue,
	FieldEbitda,
	FieldEps,
	FieldEv,
	FieldEvRevenueLTM,
	FieldEvEbitdaLTM,
	FieldEvEbitdaNTM,
	FieldPeLTM,
	FieldPeNTM,
}

// MetricRecord is one ticker's row of financial figures. A nil numeric field
// is the "missing" state, distinct from zero; it serializes as JSON null and
// is excluded from aggregates.
type MetricRecord struct {
	Ticker            string   `json:"ticker"`
	MarketCap         *float64 `json:"marketCap"`
	SharesOutstanding *float64 `json:"sharesOutstanding"`
	Debt              *float64 `json:"debt"`
	Cash              *float64 `json:"cash"`
	Revenue           *float64 `json:"revenue"`
	Ebitda            *float64 `json:"ebitda"`
	Eps               *float64 `json:"eps"`
	Ev                *float64 `json:"ev"`
	EvRevenueLTM      *float64 `json:"evRevenueLTM"`
	EvEbitdaLTM       *float64 `json:"evEbitdaLTM"`
	EvEbitdaNTM       *float64 `json:"evEbitdaNTM"`
	PeLTM             *float64 `json:"peLTM"`
	PeNTM             *float64 `json:"peNTM"`
}

// BlankRecord returns a row with an empty ticker and every numeric field
// missing, for user-initiated blank rows.
func BlankRecord() MetricRecord {
	return MetricRecord{}
}

// Value returns the numeric field f, or nil for missing or for non-numeric
// fields such as the ticker.
func (r *MetricRecord) Value(f Field) *float64 {
	switch f {
	case FieldMarketCap:
		return r.MarketCap
	case FieldSharesOutstanding:
		return r.SharesOutstanding
	case FieldDebt:
		return r.Debt
	case FieldCash:
		return r.Cash
	case FieldRevenue:
		return r.Revenue
	case FieldEbitda:
		return r.Ebitda
	case FieldEps:
		return r.Eps
	case FieldEv:
		return r.Ev
	case FieldEvRevenueLTM:
		return r.EvRevenueLTM
	case FieldEvEbitdaLTM:
		return r.EvEbitdaLTM
	case FieldEvEbitdaNTM:
		return r.EvEbitdaNTM
	case FieldPeLTM:
		return r.PeLTM
	case FieldPeNTM:
		return r.PeNTM
	}
	return nil
}

func (r *MetricRecord) setValue(f Field, v *float64) {
	switch f {
	case FieldMarketCap:
		r.MarketCap = v
	case FieldSharesOutstanding:
		r.SharesOutstanding = v
	case FieldDebt:
		r.Debt = v
	case FieldCash:
		r.Cash = v
	case FieldRevenue:
		r.Revenue = v
	case FieldEbitda:
		r.Ebitda = v
	case FieldEps:
		r.Eps = v
	case FieldEv:
		r.Ev = v
	case FieldEvRevenueLTM:
		r.EvRevenueLTM = v
	case FieldEvEbitdaLTM:
		r.EvEbitdaLTM = v
	case FieldEvEbitdaNTM:
		r.EvEbitdaNTM = v
	case FieldPeLTM:
		r.PeLTM = v
	case FieldPeNTM:
		r.PeNTM = v
	}
}

// parseNumeric maps raw cell input to a stored value. Empty or unparseable
// text and non-finite numbers coerce to missing, never to zero.
func parseNumeric(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func ptr(v float64) *float64 { return &v }

// DeriveMultiples fills the computed columns of rec from its base figures:
// EV = max(0, market cap + debt - cash), then the EV and P/E ratios.
// Missing debt or cash count as zero for EV; a ratio is present only when its
// inputs are present and the denominator is positive. NTM EV/EBITDA reuses
// the LTM EBITDA until a forward estimate source exists.
func DeriveMultiples(rec MetricRecord, forwardEps *float64) MetricRecord {
	if rec.MarketCap == nil {
		return rec
	}
	mcap := *rec.MarketCap

	var debt, cash float64
	if rec.Debt != nil {
		debt = *rec.Debt
	}
	if rec.Cash != nil {
		cash = *rec.Cash
	}
	ev := math.Max(0, mcap+debt-cash)
	rec.Ev = ptr(ev)

	if rec.Revenue != nil && *rec.Revenue > 0 {
		rec.EvRevenueLTM = ptr(ev / *rec.Revenue)
	}
	if rec.Ebitda != nil && *rec.Ebitda > 0 {
		rec.EvEbitdaLTM = ptr(ev / *rec.Ebitda)
		rec.EvEbitdaNTM = ptr(ev / *rec.Ebitda)
	}
	if rec.Eps != nil && *rec.Eps > 0 && rec.SharesOutstanding != nil && *rec.SharesOutstanding > 0 {
		rec.PeLTM = ptr(mcap / (*rec.Eps * *rec.SharesOutstanding))
	}
	if forwardEps != nil && *forwardEps > 0 && rec.SharesOutstanding != nil && *rec.SharesOutstanding > 0 {
		rec.PeNTM = ptr(mcap / (*forwardEps * *rec.SharesOutstanding))
	}
	return rec
}
