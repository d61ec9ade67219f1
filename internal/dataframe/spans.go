package dataframe

import "sort"

// spanTracker maps a column index to the row span still reaching into the
// rows below. A span of k covers k-1 following rows; entries are dropped
// once the last covered row has been emitted.
type spanTracker map[int]int

// columns returns the tracked columns in ascending order.
func (s spanTracker) columns() []int {
	cols := make([]int, 0, len(s))
	for c := range s {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

// consume records that one more row at col has been covered.
func (s spanTracker) consume(col int) {
	remaining := s[col] - 1
	if remaining > 1 {
		s[col] = remaining
		return
	}
	delete(s, col)
}

// merge adds other's spans to s, summing spans on the same column.
func (s spanTracker) merge(other spanTracker) {
	for col, span := range other {
		s[col] += span
	}
}
