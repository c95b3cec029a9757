// Package tickers extracts candidate stock symbols from free text. It is the
// fallback path when LLM extraction is disabled or comes back empty.
package tickers

import (
	"regexp"
	"strings"
)

// MaxTickers is the default cap on how many symbols one request may yield.
const MaxTickers = 10

var symbolRe = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// stopwords are common words and finance jargon that match the symbol shape
// but are never tickers in practice.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"AND OR THE FOR WITH FROM TO OF IN ON AT BY IS ARE WAS WERE BE BEEN BEING " +
			"HAVE HAS HAD DO DOES DID WILL WOULD COULD SHOULD MAY MIGHT CAN SHALL MUST " +
			"LTM NTM EV PE EBITDA COMPS") {
		stopwords[w] = struct{}{}
	}
}

// Parse returns the likely ticker symbols in text, capped at MaxTickers.
func Parse(text string) []string {
	return ParseN(text, MaxTickers)
}

// ParseN is Parse with a caller-supplied cap: 2-5 uppercase letters,
// stopwords excluded, order preserved, duplicates dropped, at most max
// results. Single letters are skipped, too many false positives. A
// non-positive max falls back to MaxTickers.
func ParseN(text string, max int) []string {
	if max <= 0 {
		max = MaxTickers
	}
	candidates := symbolRe.FindAllString(strings.ToUpper(text), -1)

	var out []string
	seen := map[string]struct{}{}
	for _, c := range candidates {
		if len(c) < 2 {
			continue
		}
		if _, skip := stopwords[c]; skip {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) == max {
			break
		}
	}
	return out
}
