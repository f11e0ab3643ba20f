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
	"math"
)

// PosType is the type used to represent interval coordinates.  int32 should be
// wide enough for some time to come, since that's what BAM is limited to.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// Interval is a closed interval [Start, Stop] with an optional label.
// Reference intervals carry a gene identifier in Label; observed intervals
// leave it empty.
//
// REQUIRES: Start <= Stop.
type Interval struct {
	Start PosType
	Stop  PosType
	Label string
}

// Len returns Stop - Start.  Note that this is one less than the number of
// positions covered by the closed interval; the classification thresholds are
// defined in terms of this difference.
func (iv Interval) Len() int {
	return int(iv.Stop) - int(iv.Start)
}

// Contains returns whether pos lies in [Start, Stop].
func (iv Interval) Contains(pos PosType) bool {
	return iv.Start <= pos && pos <= iv.Stop
}

func (iv Interval) String() string {
	if iv.Label == "" {
		return fmt.Sprintf("[%d,%d]", iv.Start, iv.Stop)
	}
	return fmt.Sprintf("[%d,%d]:%s", iv.Start, iv.Stop, iv.Label)
}

// Overlaps is the closed-interval intersection predicate: it returns true iff
// [a.Start, a.Stop] and [b.Start, b.Stop] share at least one coordinate.
// Touching endpoints count as overlap.
func Overlaps(a, b Interval) bool {
	return a.Start <= b.Stop && b.Start <= a.Stop
}

// overlapsRange is Overlaps with the second interval given as a pair.
func overlapsRange(iv Interval, a, b PosType) bool {
	return iv.Start <= b && a <= iv.Stop
}

// less orders intervals by (Start, Stop).  Labels are ignored, so sorting
// with this order must be stable for deterministic results.
func less(a, b Interval) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.Stop < b.Stop
}

// Entry is a single ungrouped interval record, as read from a file.
type Entry struct {
	ChrName string
	Interval
}

func (e Entry) String() string {
	return e.ChrName + ":" + e.Interval.String()
}
