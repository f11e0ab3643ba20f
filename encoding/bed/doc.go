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

// Package bed reads and writes the tab-delimited interval tables used by
// bio-isoform:
//
//   reference: chrom, start, stop, gene ID   (exactly 4 columns)
//   observed:  chrom, start, stop[, ...]     (at least 3 columns)
//   output:    chrom, start, stop, label     (exactly 4 columns)
//
// None of the tables have a header row.  Coordinates are base-10 integers,
// stored as interval.PosType and interpreted as closed intervals.  Paths ending
// in .gz are transparently (de)compressed.
package bed
