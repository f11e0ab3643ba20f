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

	biointerval "github.com/biogo/store/interval"
	"github.com/grailbio/base/errors"
)

// treeEntry adapts an Interval to biointerval.IntInterface.  The tree stores
// half-open ranges [Start, Stop+1), since it rejects empty ranges and a
// single-position closed interval would otherwise be one.
type treeEntry struct {
	iv  Interval
	uid uintptr
}

func (e treeEntry) Overlap(r biointerval.IntRange) bool {
	return int(e.iv.Start) < r.End && r.Start < int(e.iv.Stop)+1
}
func (e treeEntry) ID() uintptr { return e.uid }
func (e treeEntry) Range() biointerval.IntRange {
	return biointerval.IntRange{Start: int(e.iv.Start), End: int(e.iv.Stop) + 1}
}

// closedQuery is the query [a, b], expressed the same way as treeEntry.
type closedQuery struct{ a, b int }

func (q closedQuery) Overlap(r biointerval.IntRange) bool {
	return q.a < r.End && r.Start < q.b+1
}

// TreeIndex is a Searcher backed by biogo's augmented left-leaning red-black
// interval tree.  Query results are identical to Index's; it exists mainly as
// an independent implementation to check Index against.
type TreeIndex struct {
	tree biointerval.IntTree
}

// NewTreeIndex builds a TreeIndex.  It has the same sortedness requirement
// (and check) as NewIndex, so that the two are interchangeable.
func NewTreeIndex(intervals []Interval) (*TreeIndex, error) {
	if err := checkSorted(intervals); err != nil {
		return nil, err
	}
	x := &TreeIndex{}
	for i, iv := range intervals {
		// uid follows (Start, Stop) order, so the tree's (Start, ID) ordering
		// matches Index.
		if err := x.tree.Insert(treeEntry{iv: iv, uid: uintptr(i)}, true); err != nil {
			return nil, errors.E(err, fmt.Sprintf("interval.NewTreeIndex: insert %v", iv))
		}
	}
	x.tree.AdjustRanges()
	return x, nil
}

// Len implements Searcher.
func (x *TreeIndex) Len() int { return x.tree.Len() }

// Query implements Searcher.
func (x *TreeIndex) Query(a, b PosType) []Interval {
	if a > b || x.tree.Len() == 0 {
		return nil
	}
	var result []Interval
	x.tree.DoMatching(func(e biointerval.IntInterface) bool {
		result = append(result, e.(treeEntry).iv)
		return false
	}, closedQuery{int(a), int(b)})
	return result
}

// Count implements Searcher.
func (x *TreeIndex) Count(a, b PosType) int {
	if a > b || x.tree.Len() == 0 {
		return 0
	}
	n := 0
	x.tree.DoMatching(func(biointerval.IntInterface) bool {
		n++
		return false
	}, closedQuery{int(a), int(b)})
	return n
}
