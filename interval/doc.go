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

/*Package interval implements overlap queries over sets of genomic intervals,
  such as the gene spans of a reference annotation.

  Intervals are closed: [Start, Stop] contains both of its endpoints, and two
  intervals intersect iff a.Start <= b.Stop && b.Start <= a.Stop.  Intervals
  which merely touch therefore overlap.  Every component of this package (and
  its callers) relies on this one definition; see Overlaps.

  Coordinates are stored as PosType, which is currently int32 since that's what
  BAM files are limited to.
*/
package interval
