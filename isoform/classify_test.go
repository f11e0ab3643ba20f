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
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/isoform/interval"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func entry(chr string, start, stop interval.PosType, label string) interval.Entry {
	return interval.Entry{ChrName: chr, Interval: interval.Interval{Start: start, Stop: stop, Label: label}}
}

func mustSets(t *testing.T, refEntries, obsEntries []interval.Entry, kind interval.IndexKind) (*interval.RefSet, *interval.ObservedSet) {
	ref, err := interval.NewRefSet(refEntries, kind)
	assert.NoError(t, err)
	obs, err := interval.NewObservedSet(obsEntries)
	assert.NoError(t, err)
	return ref, obs
}

func classify(t *testing.T, refEntries, obsEntries []interval.Entry, opts Opts) ([]Record, Summary) {
	ref, obs := mustSets(t, refEntries, obsEntries, opts.IndexKind)
	records, summary, err := Classify(ref, obs, opts)
	assert.NoError(t, err)
	return records, summary
}

func TestClassifyHitAndNoise(t *testing.T) {
	ref := []interval.Entry{entry("chr1", 1000, 5000, "GENE_A")}
	obs := []interval.Entry{
		entry("chr1", 1000, 7000, ""),
		entry("chr1", 8000, 8100, ""),
	}
	records, summary := classify(t, ref, obs, DefaultOpts)
	// The first observed interval is never tested as a hit; it only bounds the
	// first gap.
	expect.EQ(t, records, []Record{{"chr1", 7000, 8000, NoiseLabel}})
	expect.EQ(t, summary.Observed, 1)
	expect.EQ(t, summary.Unmatched, 1)
	expect.EQ(t, summary.Noise, 1)

	// With a leading interval, [1000, 7000] is tested: it overlaps GENE_A only
	// and is 6000 > 5000 long.  The gap [500, 1000] touches GENE_A, so it is not
	// noise.
	obs = append([]interval.Entry{entry("chr1", 0, 500, "")}, obs...)
	records, summary = classify(t, ref, obs, DefaultOpts)
	expect.EQ(t, records, []Record{
		{"chr1", 1000, 7000, "GENE_A"},
		{"chr1", 7000, 8000, NoiseLabel},
	})
	expect.EQ(t, summary.Hits, 1)
	expect.EQ(t, summary.Noise, 1)
}

func TestClassifyLengthThreshold(t *testing.T) {
	ref := []interval.Entry{entry("chr1", 1000, 50000, "GENE_A")}
	obs := []interval.Entry{
		entry("chr1", 0, 10, ""),
		entry("chr1", 1000, 6000, ""), // exactly 5000: too short
		entry("chr1", 6000, 11001, ""),
	}
	records, summary := classify(t, ref, obs, DefaultOpts)
	expect.EQ(t, records, []Record{{"chr1", 6000, 11001, "GENE_A"}})
	expect.EQ(t, summary.Short, 1)
	expect.EQ(t, summary.Hits, 1)

	opts := DefaultOpts
	opts.MinLength = 100
	records, _ = classify(t, ref, obs, opts)
	expect.EQ(t, len(records), 2)
}

func TestClassifyAmbiguous(t *testing.T) {
	ref := []interval.Entry{
		entry("chr1", 20000, 21000, "GENE_A"),
		entry("chr1", 25000, 26000, "GENE_B"),
	}
	obs := []interval.Entry{
		entry("chr1", 100, 200, ""),
		entry("chr1", 19000, 30000, ""), // covers both genes
	}
	records, summary := classify(t, ref, obs, DefaultOpts)
	// No hit, but the preceding gap [200, 19000] is still tested.
	expect.EQ(t, records, []Record{{"chr1", 200, 19000, NoiseLabel}})
	expect.EQ(t, summary.Ambiguous, 1)
}

func TestClassifyGapTouchingGene(t *testing.T) {
	ref := []interval.Entry{entry("chr1", 300, 400, "GENE_A")}
	obs := []interval.Entry{
		entry("chr1", 100, 200, ""),
		entry("chr1", 300, 310, ""), // gap [200, 300] touches GENE_A
		entry("chr1", 500, 600, ""), // gap [310, 500] contains GENE_A's end
		entry("chr1", 700, 800, ""), // gap [600, 700] is clear
	}
	records, _ := classify(t, ref, obs, DefaultOpts)
	expect.EQ(t, records, []Record{{"chr1", 600, 700, NoiseLabel}})
}

func TestClassifyMissingChromosome(t *testing.T) {
	ref := []interval.Entry{entry("chr1", 1000, 5000, "GENE_A")}
	obs := []interval.Entry{
		entry("chr2", 0, 10, ""),
		entry("chr2", 1000, 7000, ""),
		entry("chr2", 8000, 9000, ""),
	}
	records, summary := classify(t, ref, obs, DefaultOpts)
	expect.EQ(t, len(records), 0)
	expect.EQ(t, summary.Chroms, 0)
	expect.EQ(t, summary.SkippedChroms, 1)
}

func TestClassifyInvertedGap(t *testing.T) {
	ref := []interval.Entry{entry("chr1", 100000, 200000, "GENE_A")}
	obs := []interval.Entry{
		entry("chr1", 0, 500, ""),
		entry("chr1", 400, 600, ""), // overlaps its predecessor
		entry("chr1", 600, 700, ""), // touches its predecessor: gap [600, 600]
	}
	records, summary := classify(t, ref, obs, DefaultOpts)
	expect.EQ(t, records, []Record{{"chr1", 600, 600, NoiseLabel}})
	expect.EQ(t, summary.Inverted, 1)
}

func TestClassifyGeneNamedNoise(t *testing.T) {
	ref := []interval.Entry{entry("chr1", 1000, 50000, NoiseLabel)}
	obs := []interval.Entry{
		entry("chr1", 0, 100, ""),
		entry("chr1", 1000, 10000, ""),
	}
	opts := DefaultOpts
	opts.NoiseCap = 0
	records, summary := classify(t, ref, obs, opts)
	// A hit on a gene called NOISE is still a hit, and isn't subject to the
	// noise cap.
	expect.EQ(t, records, []Record{{"chr1", 1000, 10000, NoiseLabel}})
	expect.EQ(t, summary.Hits, 1)
	expect.EQ(t, summary.Noise, 0)
}

// gapObserved returns n observed intervals on chr separated by gene-free gaps,
// starting at offset.
func gapObserved(chr string, n int, offset interval.PosType) []interval.Entry {
	var obs []interval.Entry
	for i := 0; i < n; i++ {
		start := offset + interval.PosType(i)*100
		obs = append(obs, entry(chr, start, start+50, ""))
	}
	return obs
}

func TestClassifyGlobalNoiseCap(t *testing.T) {
	ref := []interval.Entry{
		entry("chr1", 1000000, 1000001, "A"),
		entry("chr2", 1000000, 1000001, "B"),
		entry("chr10", 1000000, 1000001, "C"),
	}
	var obs []interval.Entry
	// Observed input order must not matter; chromosomes are visited by name.
	obs = append(obs, gapObserved("chr2", 4, 0)...)
	obs = append(obs, gapObserved("chr10", 4, 0)...)
	obs = append(obs, gapObserved("chr1", 4, 0)...)

	opts := DefaultOpts
	opts.NoiseCap = 5
	records, summary := classify(t, ref, obs, opts)
	expect.EQ(t, summary.Noise, 5)
	expect.True(t, summary.CapReached)
	var chroms []string
	for _, r := range records {
		expect.EQ(t, r.Label, NoiseLabel)
		chroms = append(chroms, r.ChrName)
	}
	expect.EQ(t, chroms, []string{"chr1", "chr1", "chr1", "chr10", "chr10"})

	opts.NoisePolicy = PerChromNoise
	opts.NoiseCap = 2
	records, summary = classify(t, ref, obs, opts)
	expect.EQ(t, summary.Noise, 6)
	expect.True(t, summary.CapReached)
	expect.EQ(t, records[0], Record{"chr1", 50, 100, NoiseLabel})
	expect.EQ(t, records[1], Record{"chr1", 150, 200, NoiseLabel})
	expect.EQ(t, records[2].ChrName, "chr10")
}

func TestClassifyNoiseCapKeepsHits(t *testing.T) {
	ref := []interval.Entry{entry("chr1", 500000, 600000, "GENE_A")}
	obs := gapObserved("chr1", 10, 0)
	obs = append(obs, entry("chr1", 510000, 520000, ""))
	opts := DefaultOpts
	opts.NoiseCap = 3
	records, summary := classify(t, ref, obs, opts)
	expect.EQ(t, summary.Noise, 3)
	expect.EQ(t, summary.Hits, 1)
	expect.EQ(t, records[len(records)-1], Record{"chr1", 510000, 520000, "GENE_A"})
}

func TestClassifyRegion(t *testing.T) {
	ref := []interval.Entry{
		entry("chr1", 1000, 5000, "GENE_A"),
		entry("chr2", 1000, 5000, "GENE_B"),
	}
	obs := []interval.Entry{
		entry("chr1", 0, 500, ""),
		entry("chr1", 1000, 7000, ""),
		entry("chr1", 8000, 8100, ""),
		entry("chr2", 0, 500, ""),
		entry("chr2", 1000, 7000, ""),
	}
	opts := DefaultOpts
	opts.Region = "chr1:600-100000"
	records, summary := classify(t, ref, obs, opts)
	// [0, 500] is outside the region, so [1000, 7000] becomes the first interval.
	expect.EQ(t, records, []Record{{"chr1", 7000, 8000, NoiseLabel}})
	expect.EQ(t, summary.Chroms, 1)

	opts.Region = "chr2"
	records, _ = classify(t, ref, obs, opts)
	expect.EQ(t, records, []Record{{"chr2", 1000, 7000, "GENE_B"}})
}

func TestClassifyBadOpts(t *testing.T) {
	ref, obs := mustSets(t, nil, nil, interval.ArrayIndex)
	for _, opts := range []Opts{
		{MinLength: -1},
		{NoiseCap: -1},
		{NoisePolicy: "sometimes"},
		{IndexKind: "hash"},
		{Parallelism: -2},
		{Region: "chr1:9-1"},
	} {
		_, _, err := Classify(ref, obs, opts)
		assert.NotNil(t, err, "opts %+v", opts)
		expect.True(t, errors.Is(errors.Invalid, err), "opts %+v: %v", opts, err)
	}
}

// randomInput generates a reference and a sorted observed set over a few
// chromosomes.
func randomInput(r *rand.Rand) (ref, obs []interval.Entry) {
	nChrom := 1 + r.Intn(6)
	for c := 0; c < nChrom; c++ {
		chr := fmt.Sprintf("chr%d", c+1)
		for i := r.Intn(60); i > 0; i-- {
			start := interval.PosType(r.Intn(1000000))
			ref = append(ref, entry(chr, start, start+interval.PosType(r.Intn(40000)), fmt.Sprintf("G%d_%d", c, i)))
		}
		var chrObs []interval.Entry
		for i := r.Intn(200); i > 0; i-- {
			start := interval.PosType(r.Intn(1000000))
			chrObs = append(chrObs, entry(chr, start, start+interval.PosType(r.Intn(12000)), ""))
		}
		sort.SliceStable(chrObs, func(i, j int) bool { return chrObs[i].Start < chrObs[j].Start })
		obs = append(obs, chrObs...)
	}
	// One observed-only chromosome.
	obs = append(obs, gapObserved("chrUn", 5, 0)...)
	return
}

func TestClassifyInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 30; iter++ {
		refEntries, obsEntries := randomInput(r)
		opts := DefaultOpts
		opts.NoiseCap = r.Intn(100)
		ref, obs := mustSets(t, refEntries, obsEntries, interval.ArrayIndex)
		records, summary, err := Classify(ref, obs, opts)
		assert.NoError(t, err)

		nNoise := 0
		for _, rec := range records {
			expect.NEQ(t, rec.ChrName, "chrUn")
			searcher, ok := ref.Get(rec.ChrName)
			assert.True(t, ok)
			matches := searcher.Query(rec.Start, rec.Stop)
			if rec.Label == NoiseLabel {
				nNoise++
				expect.EQ(t, len(matches), 0, "noise record %v", rec)
				continue
			}
			expect.EQ(t, len(matches), 1, "hit %v", rec)
			expect.EQ(t, matches[0].Label, rec.Label)
			expect.True(t, int(rec.Stop)-int(rec.Start) > opts.MinLength, "hit %v", rec)
		}
		expect.EQ(t, nNoise, summary.Noise)
		expect.LE(t, nNoise, opts.NoiseCap)
		expect.EQ(t, summary.Observed, summary.Hits+summary.Ambiguous+summary.Unmatched+summary.Short)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for iter := 0; iter < 10; iter++ {
		refEntries, obsEntries := randomInput(r)
		opts := DefaultOpts
		opts.NoiseCap = 1 + r.Intn(50)
		opts.Parallelism = 1
		want, wantSummary := classify(t, refEntries, obsEntries, opts)
		for _, parallelism := range []int{0, 2, 3, 16} {
			for _, kind := range []interval.IndexKind{interval.ArrayIndex, interval.TreeIndexKind} {
				opts.Parallelism = parallelism
				opts.IndexKind = kind
				got, gotSummary := classify(t, refEntries, obsEntries, opts)
				expect.EQ(t, got, want, "parallelism %d, index %s", parallelism, kind)
				expect.EQ(t, gotSummary, wantSummary)
			}
		}
	}
}
