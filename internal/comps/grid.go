package comps

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Cell is one export cell: either literal text or a number rounded for
// serialization. Number is nil for text cells and for blank cells.
type Cell struct {
	Text   string
	Number *float64
}

// IsNumber reports whether the cell carries a numeric value.
func (c Cell) IsNumber() bool { return c.Number != nil }

// String renders the cell the way it appears in the sheet: the text, the
// number without trailing zeros, or "" for a blank.
func (c Cell) String() string {
	if c.Number != nil {
		return strconv.FormatFloat(*c.Number, 'f', -1, 64)
	}
	return c.Text
}

// ExportGrid is the header+body+median-row projection handed to the
// spreadsheet writer. It is built on demand and never mutates the store.
type ExportGrid struct {
	Header []string
	Rows   [][]Cell
}

// exportDecimals: numeric cells are rounded to 4 decimal places at export
// time only, never at edit time.
const exportDecimals = 4

// BuildExportGrid projects the current dataset: a header row of column
// labels, one row per record (ticker as literal text, numerics rounded, "-"
// never emitted — missing cells are blank), and a trailing "Median" row with
// the column medians, blank where a column has none.
func (s *Store) BuildExportGrid() ExportGrid {
	s.mu.Lock()
	defer s.mu.Unlock()

	header := make([]string, 0, len(NumericFields)+1)
	header = append(header, FieldLabel(FieldTicker))
	for _, f := range NumericFields {
		header = append(header, FieldLabel(f))
	}

	rows := make([][]Cell, 0, len(s.rows)+1)
	for i := range s.rows {
		row := make([]Cell, 0, len(header))
		row = append(row, Cell{Text: s.rows[i].Ticker})
		for _, f := range NumericFields {
			if v := s.rows[i].Value(f); v != nil {
				row = append(row, Cell{Number: ptr(roundTo(*v, exportDecimals))})
			} else {
				row = append(row, Cell{})
			}
		}
		rows = append(rows, row)
	}

	medianRow := make([]Cell, 0, len(header))
	medianRow = append(medianRow, Cell{Text: "Median"})
	for _, f := range NumericFields {
		if m, ok := s.medians[f]; ok {
			medianRow = append(medianRow, Cell{Number: ptr(roundTo(m, exportDecimals))})
		} else {
			medianRow = append(medianRow, Cell{})
		}
	}
	rows = append(rows, medianRow)

	return ExportGrid{Header: header, Rows: rows}
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// FieldLabel derives the human-readable column label from a field's wire
// name: a space is inserted at each lowercase-to-uppercase boundary and the
// first character is capitalized, so "evEbitdaLTM" becomes "Ev Ebitda LTM"
// and runs of capitals stay together.
func FieldLabel(f Field) string {
	key := string(f)
	if key == "" {
		return ""
	}
	var b strings.Builder
	runes := []rune(key)
	for i, r := range runes {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
