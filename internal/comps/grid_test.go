package comps

import (
	"reflect"
	"testing"
)

func TestFieldLabel(t *testing.T) {
	cases := []struct {
		field    Field
		expected string
	}{
		{FieldTicker, "Ticker"},
		{FieldMarketCap, "Market Cap"},
		{FieldSharesOutstanding, "Shares Outstanding"},
		{FieldDebt, "Debt"},
		{FieldRevenue, "Revenue"},
		{FieldEbitda, "Ebitda"},
		{FieldEps, "Eps"},
		{FieldEv, "Ev"},
		{FieldEvRevenueLTM, "Ev Revenue LTM"},
		{FieldEvEbitdaLTM, "Ev Ebitda LTM"},
		{FieldEvEbitdaNTM, "Ev Ebitda NTM"},
		{FieldPeLTM, "Pe LTM"},
		{FieldPeNTM, "Pe NTM"},
	}
	for _, tc := range cases {
		if got := FieldLabel(tc.field); got != tc.expected {
			t.Fatalf("FieldLabel(%q) = %q, want %q", tc.field, got, tc.expected)
		}
	}
}

func TestBuildExportGridShape(t *testing.T) {
	s := NewStore()
	s.SetDataset([]MetricRecord{
		row("A", ptr(100)),
		row("B", ptr(300)),
	})

	grid := s.BuildExportGrid()

	if len(grid.Header) != len(NumericFields)+1 {
		t.Fatalf("header has %d columns, want %d", len(grid.Header), len(NumericFields)+1)
	}
	if grid.Header[0] != "Ticker" {
		t.Fatalf("first header cell = %q", grid.Header[0])
	}
	// two body rows plus the median row
	if len(grid.Rows) != 3 {
		t.Fatalf("grid has %d rows, want 3", len(grid.Rows))
	}
	if got := grid.Rows[0][0].String(); got != "A" {
		t.Fatalf("body ticker cell = %q", got)
	}

	medianRow := grid.Rows[len(grid.Rows)-1]
	if medianRow[0].String() != "Median" {
		t.Fatalf("median row label = %q", medianRow[0].String())
	}
	revIdx := columnIndex(t, FieldRevenue)
	if medianRow[revIdx].String() != "200" {
		t.Fatalf("median revenue cell = %q, want 200", medianRow[revIdx].String())
	}
	if !medianRow[revIdx].IsNumber() {
		t.Fatal("median revenue cell should be numeric")
	}
}

func TestBuildExportGridMissingMedianIsBlank(t *testing.T) {
	s := NewStore()
	s.SetDataset([]MetricRecord{
		{Ticker: "SOLO", Revenue: ptr(10)}, // ebitda missing
	})

	grid := s.BuildExportGrid()
	medianRow := grid.Rows[len(grid.Rows)-1]

	ebitdaIdx := columnIndex(t, FieldEbitda)
	if got := medianRow[ebitdaIdx].String(); got != "" {
		t.Fatalf("ebitda median cell = %q, want empty", got)
	}
	if medianRow[ebitdaIdx].IsNumber() {
		t.Fatal("absent median must not surface as a number")
	}
}

func TestBuildExportGridRoundsToFourDecimals(t *testing.T) {
	s := NewStore()
	s.SetDataset([]MetricRecord{
		{Ticker: "X", EvEbitdaLTM: ptr(12.345678)},
	})

	grid := s.BuildExportGrid()
	idx := columnIndex(t, FieldEvEbitdaLTM)

	if got := *grid.Rows[0][idx].Number; got != 12.3457 {
		t.Fatalf("rounded cell = %v, want 12.3457", got)
	}
}

func TestBuildExportGridIdempotent(t *testing.T) {
	s := NewStore()
	s.SetDataset([]MetricRecord{
		row("A", ptr(100)),
		{Ticker: "B", Ebitda: ptr(55.5)},
	})

	first := s.BuildExportGrid()
	second := s.BuildExportGrid()

	if !reflect.DeepEqual(first.Header, second.Header) {
		t.Fatal("headers differ between builds")
	}
	if len(first.Rows) != len(second.Rows) {
		t.Fatal("row counts differ between builds")
	}
	for i := range first.Rows {
		for j := range first.Rows[i] {
			a, b := first.Rows[i][j], second.Rows[i][j]
			if a.String() != b.String() || a.IsNumber() != b.IsNumber() {
				t.Fatalf("cell (%d,%d) differs: %q vs %q", i, j, a.String(), b.String())
			}
		}
	}
}

func TestBuildExportGridDoesNotMutateStore(t *testing.T) {
	s := NewStore()
	s.SetDataset([]MetricRecord{row("A", ptr(100))})

	before := s.Rows()
	s.BuildExportGrid()
	after := s.Rows()

	if !reflect.DeepEqual(before, after) {
		t.Fatal("BuildExportGrid mutated the dataset")
	}
}

// columnIndex maps a numeric field to its grid column (ticker occupies 0).
func columnIndex(t *testing.T, f Field) int {
	t.Helper()
	for i, nf := range NumericFields {
		if nf == f {
			return i + 1
		}
	}
	t.Fatalf("unknown field %q", f)
	return -1
}
