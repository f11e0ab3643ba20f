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
	"sort"
	"strings"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// chromNode is a ChromMap element.  Only name takes part in comparisons.
type chromNode struct {
	name  string
	value interface{}
}

// Compare implements llrb.Comparable.
func (c *chromNode) Compare(c2 llrb.Comparable) int {
	return strings.Compare(c.name, c2.(*chromNode).name)
}

// ChromMap maps chromosome names to per-chromosome values, iterating in
// lexicographic name order.  Thread compatible.
type ChromMap struct {
	tree llrb.Tree
}

// Get returns the value stored for chrName, if any.
func (m *ChromMap) Get(chrName string) (interface{}, bool) {
	c := m.tree.Get(&chromNode{name: chrName})
	if c == nil {
		return nil, false
	}
	return c.(*chromNode).value, true
}

// Set stores value for chrName, replacing any previous value.
func (m *ChromMap) Set(chrName string, value interface{}) {
	m.tree.Insert(&chromNode{name: chrName, value: value})
}

// Len returns the number of chromosomes.
func (m *ChromMap) Len() int { return m.tree.Len() }

// Do calls fn for each chromosome in name order.
func (m *ChromMap) Do(fn func(chrName string, value interface{})) {
	m.tree.Do(func(c llrb.Comparable) bool {
		n := c.(*chromNode)
		fn(n.name, n.value)
		return false
	})
}

// Names returns the chromosome names in order.
func (m *ChromMap) Names() []string {
	names := make([]string, 0, m.Len())
	m.Do(func(chrName string, _ interface{}) {
		names = append(names, chrName)
	})
	return names
}

// Group splits entries by chromosome.  The value stored for each chromosome is
// a []Interval holding all of its entries in input order; nothing is dropped
// or deduplicated.
func Group(entries []Entry) *ChromMap {
	m := &ChromMap{}
	// Records for one chromosome are usually contiguous, so remember the last
	// one instead of searching the tree on every entry.
	var (
		lastName string
		last     *[]Interval
	)
	for _, e := range entries {
		if last == nil || e.ChrName != lastName {
			v, ok := m.Get(e.ChrName)
			if !ok {
				v = &[]Interval{}
				m.Set(e.ChrName, v)
			}
			lastName, last = e.ChrName, v.(*[]Interval)
		}
		*last = append(*last, e.Interval)
	}
	// Unwrap the pointers used during accumulation.
	m.tree.Do(func(c llrb.Comparable) bool {
		n := c.(*chromNode)
		n.value = *n.value.(*[]Interval)
		return false
	})
	return m
}

// IndexKind selects a Searcher implementation.
type IndexKind string

const (
	// ArrayIndex selects Index.
	ArrayIndex IndexKind = "array"
	// TreeIndexKind selects TreeIndex.
	TreeIndexKind IndexKind = "tree"
)

// ParseIndexKind parses "array" or "tree".  The empty string means
// ArrayIndex.
func ParseIndexKind(s string) (IndexKind, error) {
	switch IndexKind(s) {
	case "", ArrayIndex:
		return ArrayIndex, nil
	case TreeIndexKind:
		return TreeIndexKind, nil
	}
	return "", errors.E(errors.Invalid, fmt.Sprintf("interval.ParseIndexKind: unknown index kind %q", s))
}

// NewSearcher builds a Searcher of the given kind.
//
// REQUIRES: intervals are sorted by (Start, Stop).
func NewSearcher(intervals []Interval, kind IndexKind) (Searcher, error) {
	switch kind {
	case "", ArrayIndex:
		return NewIndex(intervals)
	case TreeIndexKind:
		return NewTreeIndex(intervals)
	}
	return nil, errors.E(errors.Invalid, fmt.Sprintf("interval.NewSearcher: unknown index kind %q", kind))
}

// RefSet holds one Searcher per chromosome of a reference annotation.
// It is immutable once built, and safe for concurrent use.
type RefSet struct {
	chroms ChromMap
	n      int
}

// NewRefSet groups reference entries by chromosome, sorts each chromosome by
// (Start, Stop), and indexes it.  The sort is stable, so intervals with equal
// coordinates keep their input order.
func NewRefSet(entries []Entry, kind IndexKind) (*RefSet, error) {
	s := &RefSet{}
	var err error
	Group(entries).Do(func(chrName string, v interface{}) {
		if err != nil {
			return
		}
		ivs := v.([]Interval)
		sort.SliceStable(ivs, func(i, j int) bool { return less(ivs[i], ivs[j]) })
		var searcher Searcher
		if searcher, err = NewSearcher(ivs, kind); err != nil {
			err = errors.E(err, fmt.Sprintf("chromosome %s", chrName))
			return
		}
		s.chroms.Set(chrName, searcher)
		s.n += len(ivs)
		log.Debug.Printf("interval.NewRefSet: %s: %d interval(s)", chrName, len(ivs))
	})
	if err != nil {
		return nil, err
	}
	log.Printf("interval.NewRefSet: indexed %d interval(s) on %d chromosome(s)", s.n, s.chroms.Len())
	return s, nil
}

// Get returns the Searcher for chrName.
func (s *RefSet) Get(chrName string) (Searcher, bool) {
	v, ok := s.chroms.Get(chrName)
	if !ok {
		return nil, false
	}
	return v.(Searcher), true
}

// Chroms returns the chromosome names in order.
func (s *RefSet) Chroms() []string { return s.chroms.Names() }

// Len returns the total number of reference intervals.
func (s *RefSet) Len() int { return s.n }

// ObservedSet holds the observed intervals of each chromosome, in input order.
type ObservedSet struct {
	chroms ChromMap
	n      int
}

// NewObservedSet groups observed entries by chromosome.  Each chromosome's
// intervals must already be in nondecreasing Start order (gaps between
// consecutive intervals are meaningless otherwise); an errors.Invalid error
// identifying the first violation is returned if not.  Intervals with
// Start > Stop are rejected the same way.
func NewObservedSet(entries []Entry) (*ObservedSet, error) {
	s := &ObservedSet{}
	var err error
	Group(entries).Do(func(chrName string, v interface{}) {
		if err != nil {
			return
		}
		ivs := v.([]Interval)
		for i, iv := range ivs {
			if iv.Start > iv.Stop {
				err = errors.E(errors.Invalid, fmt.Sprintf("interval.NewObservedSet: chromosome %s: interval #%d %v has start > stop", chrName, i, iv))
				return
			}
			if i > 0 && iv.Start < ivs[i-1].Start {
				err = errors.E(errors.Invalid, fmt.Sprintf("interval.NewObservedSet: chromosome %s: unsorted input (interval #%d %v starts before #%d %v)", chrName, i, iv, i-1, ivs[i-1]))
				return
			}
		}
		s.chroms.Set(chrName, ivs)
		s.n += len(ivs)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("interval.NewObservedSet: %d interval(s) on %d chromosome(s)", s.n, s.chroms.Len())
	return s, nil
}

// Get returns the intervals of chrName in input order.  The result must not be
// modified.
func (s *ObservedSet) Get(chrName string) []Interval {
	v, ok := s.chroms.Get(chrName)
	if !ok {
		return nil
	}
	return v.([]Interval)
}

// Chroms returns the chromosome names in order.
func (s *ObservedSet) Chroms() []string { return s.chroms.Names() }

// Len returns the total number of observed intervals.
func (s *ObservedSet) Len() int { return s.n }
