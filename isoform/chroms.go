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
package isoform

import (
	"github.com/antzucaro/matchr"
)

// closestName returns the element of names with the smallest edit distance to
// name, or "" if names is empty.  Ties go to the earlier element.
func closestName(name string, names []string) string {
	best, bestDist := "", -1
	for _, n := range names {
		if d := matchr.Levenshtein(name, n); bestDist < 0 || d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}
