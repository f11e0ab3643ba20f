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
	"strconv"
	"strings"
)

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[first pos]-[last pos]
//   [contig ID]:[pos]
//   [contig ID]
// returning a contig ID and a closed interval.  Positions are taken verbatim,
// in the same coordinate system as the interval files.  The interval
// [0, PosTypeMax] is returned if there is no positional restriction.
func ParseRegionString(region string) (result Entry, err error) {
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result.ChrName = region
		result.Start = 0
		result.Stop = PosTypeMax
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty contig ID")
		return
	}
	result.ChrName = region[0:colonPos]
	rangeStr := region[colonPos+1:]
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos PosType
		if pos, err = parsePos(rangeStr); err != nil {
			return
		}
		result.Start = pos
		result.Stop = pos
		return
	}
	if result.Start, err = parsePos(rangeStr[:dashPos]); err != nil {
		return
	}
	if result.Stop, err = parsePos(rangeStr[dashPos+1:]); err != nil {
		return
	}
	if result.Stop < result.Start {
		err = fmt.Errorf("interval.ParseRegionString: invalid range string %v", rangeStr)
	}
	return
}

func parsePos(s string) (PosType, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", s)
	}
	return PosType(v), nil
}
