// Copyright 2021 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package interval

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Searcher answers closed-interval overlap queries against a fixed set of
// intervals on one chromosome.  Implementations are immutable after
// construction and safe for concurrent use.
type Searcher interface {
	// Query returns every stored interval intersecting [a, b], in (Start,
	// Stop) order.  It returns nil if there are none.
	Query(a, b PosType) []Interval
	// Count returns len(Query(a, b)).
	Count(a, b PosType) int
	// Len returns the number of stored intervals.
	Len() int
}

// Index is a static interval index over a sorted slice.
//
// The intervals are kept in (Start, Stop) order.  The slice is viewed as an
// implicit balanced binary search tree: the root of the subtree covering
// [lo, hi) is element (lo+hi)/2, and maxStop[mid] records the largest Stop in
// that subtree.  A query [a, b] descends the tree, skipping subtrees whose
// maxStop < a and everything at or after the first Start > b, so it runs in
// O(log n + k) for k matches.
type Index struct {
	ivs     []Interval
	starts  []PosType
	maxStop []PosType
}

// NewIndex builds an Index.
//
// REQUIRES: intervals are sorted by (Start, Stop).  This is checked; an
// unsorted input or an interval with Start > Stop produces an errors.Invalid
// error instead of an index that silently misses overlaps.  The caller's slice
// is copied.
func NewIndex(intervals []Interval) (*Index, error) {
	if err := checkSorted(intervals); err != nil {
		return nil, err
	}
	n := len(intervals)
	x := &Index{
		ivs:     make([]Interval, n),
		starts:  make([]PosType, n),
		maxStop: make([]PosType, n),
	}
	copy(x.ivs, intervals)
	for i, iv := range x.ivs {
		x.starts[i] = iv.Start
	}
	if n > 0 {
		x.build(0, n)
	}
	return x, nil
}

func checkSorted(intervals []Interval) error {
	for i, iv := range intervals {
		if iv.Start > iv.Stop {
			return errors.E(errors.Invalid, fmt.Sprintf("interval.NewIndex: interval #%d %v has start > stop", i, iv))
		}
		if i > 0 && less(iv, intervals[i-1]) {
			return errors.E(errors.Invalid, fmt.Sprintf("interval.NewIndex: unsorted input (interval #%d %v precedes #%d %v)", i, iv, i-1, intervals[i-1]))
		}
	}
	return nil
}

// build fills maxStop for the subtree covering [lo, hi) and returns its
// maximum Stop.  It must not be called on an empty range.
func (x *Index) build(lo, hi int) PosType {
	mid := int(uint(lo+hi) >> 1)
	m := x.ivs[mid].Stop
	if lo < mid {
		if s := x.build(lo, mid); s > m {
			m = s
		}
	}
	if mid+1 < hi {
		if s := x.build(mid+1, hi); s > m {
			m = s
		}
	}
	x.maxStop[mid] = m
	return m
}

// Len implements Searcher.
func (x *Index) Len() int { return len(x.ivs) }

// Query implements Searcher.
func (x *Index) Query(a, b PosType) []Interval {
	var result []Interval
	x.Do(a, b, func(iv Interval) {
		result = append(result, iv)
	})
	return result
}

// Count implements Searcher.
func (x *Index) Count(a, b PosType) int {
	n := 0
	x.Do(a, b, func(Interval) { n++ })
	return n
}

// Do calls fn on every stored interval intersecting [a, b], in (Start, Stop)
// order.
func (x *Index) Do(a, b PosType, fn func(Interval)) {
	if a > b || len(x.ivs) == 0 {
		return
	}
	// Everything at or past limit starts after b.
	limit := searchAfter(x.starts, b)
	x.do(0, len(x.ivs), limit, a, b, fn)
}

func (x *Index) do(lo, hi, limit int, a, b PosType, fn func(Interval)) {
	if lo >= hi || lo >= limit {
		return
	}
	mid := int(uint(lo+hi) >> 1)
	if x.maxStop[mid] < a {
		return
	}
	x.do(lo, mid, limit, a, b, fn)
	if mid >= limit {
		return
	}
	if iv := x.ivs[mid]; overlapsRange(iv, a, b) {
		fn(iv)
	}
	x.do(mid+1, hi, limit, a, b, fn)
}

// Intervals returns the stored intervals in (Start, Stop) order.  The result
// must not be modified.
func (x *Index) Intervals() []Interval { return x.ivs }
