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
bio-isoform reads a reference table of gene intervals and a table of observed
(merged signal) intervals, and reports observed intervals that overlap exactly
one gene ("single-isoform" regions) together with gaps between observed
intervals that overlap no gene ("NOISE" regions).

Both inputs are tab-separated.  The reference table has exactly four columns
(chrom, start, stop, gene); the observed table has at least three (chrom,
start, stop) and must be sorted by start within each chromosome.  Coordinates
are closed intervals.  Inputs ending in .gz are decompressed, and an output
path ending in .gz is compressed.

Sample usage:
bio-isoform classify \
    --min-length 5000 \
    --noise-cap 3000 \
    genes.bed merged_signal.bed single_isoform.bed

bio-isoform query genes.bed chr1:10000-20000
*/
package main
