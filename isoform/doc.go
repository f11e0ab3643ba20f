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

/*
Package isoform classifies observed signal intervals (e.g. merged blocks of
nascent-transcription reads) against a reference gene annotation.

For each chromosome present in both inputs, consecutive observed intervals
b[0], b[1], ..., b[n-1] (sorted by start) are visited for i = 1..n-1:

  - b[i] is a single-isoform hit if it overlaps exactly one reference interval
    and b[i].Stop - b[i].Start > MinLength.  The hit is labelled with that
    reference interval's gene ID.

  - The gap [b[i-1].Stop, b[i].Start] is a noise candidate if it overlaps no
    reference interval.  Noise candidates are labelled NoiseLabel, and at most
    NoiseCap of them are reported.

b[0] is never reported as a hit; it only provides the left edge of the first
gap.  All overlaps are closed-interval overlaps (see package interval), so a
gap which touches a gene is not noise.
*/
package isoform
