package comps

import (
	"math"
	"sort"
	"strings"
	"sync"
)

// MedianSnapshot holds the per-column median over all non-missing values of
// the current dataset. A column with no finite values has no entry.
type MedianSnapshot map[Field]float64

// Store owns the ordered dataset of MetricRecord for one open project. Every
// mutation recomputes the median snapshot before returning, so a read after a
// mutation never sees stale aggregates. All methods are safe for concurrent
// use; the mutex guards the dataset and snapshot as a pair.
//
// Out-of-range row indices on UpdateCell and DeleteRow are deliberate no-ops.
type Store struct {
	mu      sync.Mutex
	rows    []MetricRecord
	medians MedianSnapshot
}

func NewStore() *Store {
	return &Store{medians: MedianSnapshot{}}
}

// SetDataset replaces the entire dataset, e.g. after a fresh analysis.
// Duplicate tickers are permitted and kept as distinct rows.
func (s *Store) SetDataset(rows []MetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = make([]MetricRecord, len(rows))
	copy(s.rows, rows)
	s.recomputeMedians()
}

// AppendRow adds one record at the end of the dataset.
func (s *Store) AppendRow(rec MetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rec)
	s.recomputeMedians()
}

// AppendBlankRow adds an empty row: blank ticker, all numerics missing.
func (s *Store) AppendBlankRow() {
	s.AppendRow(BlankRecord())
}

// UpdateCell stores raw user input into one cell. Ticker text is uppercased;
// numeric input that is empty or does not parse to a finite number becomes
// missing. An out-of-range rowIndex leaves the dataset untouched.
func (s *Store) UpdateCell(rowIndex int, field Field, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rowIndex < 0 || rowIndex >= len(s.rows) {
		return
	}
	if field == FieldTicker {
		s.rows[rowIndex].Ticker = strings.ToUpper(strings.TrimSpace(raw))
	} else {
		s.rows[rowIndex].setValue(field, parseNumeric(raw))
	}
	s.recomputeMedians()
}

// DeleteRow removes the row at rowIndex, shifting later rows up.
// Out-of-range is a no-op.
func (s *Store) DeleteRow(rowIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rowIndex < 0 || rowIndex >= len(s.rows) {
		return
	}
	s.rows = append(s.rows[:rowIndex], s.rows[rowIndex+1:]...)
	s.recomputeMedians()
}

// Rows returns a copy of the current dataset in display order.
func (s *Store) Rows() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MetricRecord, len(s.rows))
	copy(out, s.rows)
	return out
}

// Len returns the number of rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// CurrentMedians returns the snapshot consistent with the dataset as of the
// most recent mutation.
func (s *Store) CurrentMedians() MedianSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(MedianSnapshot, len(s.medians))
	for f, v := range s.medians {
		out[f] = v
	}
	return out
}

// recomputeMedians rebuilds the snapshot from scratch. Callers hold s.mu.
// Datasets are tens of rows, so a full recompute per mutation is fine and
// keeps the read-after-write contract trivial.
func (s *Store) recomputeMedians() {
	snap := make(MedianSnapshot, len(NumericFields))
	vals := make([]float64, 0, len(s.rows))
	for _, f := range NumericFields {
		vals = vals[:0]
		for i := range s.rows {
			if v := s.rows[i].Value(f); v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
				vals = append(vals, *v)
			}
		}
		if m, ok := median(vals); ok {
			snap[f] = m
		}
	}
	s.medians = snap
}

// median returns the textbook median of vals: the middle element for odd
// counts, the mean of the two central elements for even counts. ok is false
// for an empty input — an absent median, not zero.
func median(vals []float64) (m float64, ok bool) {
	n := len(vals)
	if n == 0 {
		return 0, false
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2], true
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, true
}

// medianEpsilon bounds how far a cell may sit from its column median and
// still render as "at the median".
const medianEpsilon = 1e-6

// AtMedian reports whether value differs from the column median by less than
// the fixed epsilon. It is a derived, read-only presentation flag and is
// never stored on a record.
func AtMedian(value, median float64) bool {
	return math.Abs(value-median) < medianEpsilon
}
