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

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/isoform/interval"
)

// NoiseLabel is the label of noise records.
const NoiseLabel = "NOISE"

// Record is one line of classification output: a single-isoform hit labelled
// with its gene ID, or a noise gap labelled NoiseLabel.
type Record struct {
	ChrName string
	Start   interval.PosType
	Stop    interval.PosType
	Label   string
}

func (r Record) String() string {
	return fmt.Sprintf("%s:%d-%d:%s", r.ChrName, r.Start, r.Stop, r.Label)
}

// Summary describes a Classify run.
type Summary struct {
	// Chroms is the number of chromosomes present in both inputs.
	Chroms int
	// SkippedChroms is the number of observed chromosomes absent from the
	// reference.  They produce no records.
	SkippedChroms int
	// Observed is the number of observed intervals tested as hits.  The first
	// interval of each chromosome is not tested.
	Observed int
	// Hits, Ambiguous, Unmatched and Short partition Observed: exactly one
	// overlapping gene and long enough; more than one gene; no gene; exactly
	// one gene but not longer than MinLength.
	Hits      int
	Ambiguous int
	Unmatched int
	Short     int
	// Inverted is the number of gaps skipped because consecutive observed
	// intervals overlap.
	Inverted int
	// Noise is the number of noise records emitted.
	Noise int
	// CapReached is set when the noise cap was reached (on any chromosome,
	// under PerChromNoise).
	CapReached bool
	// Digest is Digest() of the emitted records.
	Digest uint64
}

func (s *Summary) add(s2 Summary) {
	s.Chroms += s2.Chroms
	s.SkippedChroms += s2.SkippedChroms
	s.Observed += s2.Observed
	s.Hits += s2.Hits
	s.Ambiguous += s2.Ambiguous
	s.Unmatched += s2.Unmatched
	s.Short += s2.Short
	s.Inverted += s2.Inverted
}

func (s Summary) String() string {
	return fmt.Sprintf("chroms: %d (skipped %d), observed: %d, hits: %d, ambiguous: %d, unmatched: %d, short: %d, inverted gaps: %d, noise: %d (cap reached: %v), digest: %016x",
		s.Chroms, s.SkippedChroms, s.Observed, s.Hits, s.Ambiguous, s.Unmatched, s.Short, s.Inverted, s.Noise, s.CapReached, s.Digest)
}

// classified is a Record tagged with its kind, since a gene could be named
// NoiseLabel.
type classified struct {
	Record
	noise bool
}

type chromResult struct {
	records []classified
	summary Summary
}

type chromJob struct {
	chrName string
	ref     interval.Searcher
	obs     []interval.Interval
}

// classifyChrom classifies one chromosome.  It stops testing gaps once it has
// found opts.NoiseCap noise candidates; under GlobalNoise, the caller trims
// the candidates further.
func classifyChrom(job chromJob, opts parsedOpts) (r chromResult) {
	obs := job.obs
	nNoise := 0
	for i := 1; i < len(obs); i++ {
		cur := obs[i]
		r.summary.Observed++
		matches := job.ref.Query(cur.Start, cur.Stop)
		switch {
		case len(matches) == 0:
			r.summary.Unmatched++
		case len(matches) > 1:
			r.summary.Ambiguous++
		case cur.Len() <= opts.MinLength:
			r.summary.Short++
		default:
			r.summary.Hits++
			r.records = append(r.records, classified{
				Record: Record{ChrName: job.chrName, Start: cur.Start, Stop: cur.Stop, Label: matches[0].Label},
			})
		}

		prevStop := obs[i-1].Stop
		if cur.Start < prevStop {
			r.summary.Inverted++
			continue
		}
		if nNoise >= opts.NoiseCap {
			continue
		}
		if job.ref.Count(prevStop, cur.Start) == 0 {
			nNoise++
			r.records = append(r.records, classified{
				Record: Record{ChrName: job.chrName, Start: prevStop, Stop: cur.Start, Label: NoiseLabel},
				noise:  true,
			})
		}
	}
	log.Debug.Printf("isoform: %s: %d observed, %d hit(s), %d noise candidate(s)", job.chrName, r.summary.Observed, r.summary.Hits, nNoise)
	return r
}

// restrict returns the observed intervals overlapping region.
func restrict(obs []interval.Interval, region interval.Interval) []interval.Interval {
	var kept []interval.Interval
	for _, iv := range obs {
		if interval.Overlaps(iv, region) {
			kept = append(kept, iv)
		}
	}
	return kept
}

// Classify classifies the observed intervals of every chromosome present in
// both ref and obs.  Records are ordered by chromosome name, then by observed
// interval; a hit precedes the noise record of the gap immediately before the
// same interval.  The result does not depend on opts.Parallelism.
func Classify(ref *interval.RefSet, obs *interval.ObservedSet, opts Opts) ([]Record, Summary, error) {
	var summary Summary
	popts, err := opts.parse()
	if err != nil {
		return nil, summary, err
	}

	var jobs []chromJob
	for _, chrName := range obs.Chroms() {
		if popts.hasRegion && chrName != popts.region.ChrName {
			continue
		}
		searcher, ok := ref.Get(chrName)
		if !ok {
			if refChroms := ref.Chroms(); len(refChroms) > 0 {
				log.Printf("isoform: %s: not in reference, skipped (closest reference name: %s)", chrName, closestName(chrName, refChroms))
			} else {
				log.Printf("isoform: %s: not in reference, skipped", chrName)
			}
			summary.SkippedChroms++
			continue
		}
		chrObs := obs.Get(chrName)
		if popts.hasRegion {
			chrObs = restrict(chrObs, popts.region.Interval)
		}
		jobs = append(jobs, chromJob{chrName: chrName, ref: searcher, obs: chrObs})
	}
	summary.Chroms = len(jobs)

	// Chromosomes are independent, so they're processed in parallel; the
	// global noise cap is applied afterwards, in chromosome order.
	results := make([]chromResult, len(jobs))
	if nJob := len(jobs); nJob > 0 {
		parallelism := popts.Parallelism
		if parallelism > nJob {
			parallelism = nJob
		}
		err = traverse.Each(parallelism, func(jobIdx int) error {
			startIdx := (jobIdx * nJob) / parallelism
			endIdx := ((jobIdx + 1) * nJob) / parallelism
			for k := startIdx; k < endIdx; k++ {
				results[k] = classifyChrom(jobs[k], popts)
			}
			return nil
		})
		if err != nil {
			return nil, summary, err
		}
	}

	var records []Record
	for _, r := range results {
		summary.add(r.summary)
		nChromNoise := 0
		for _, c := range r.records {
			if c.noise {
				if popts.NoisePolicy == GlobalNoise && summary.Noise >= popts.NoiseCap {
					continue
				}
				summary.Noise++
				nChromNoise++
			}
			records = append(records, c.Record)
		}
		if popts.NoisePolicy == PerChromNoise && nChromNoise >= popts.NoiseCap {
			summary.CapReached = true
		}
	}
	if popts.NoisePolicy == GlobalNoise && summary.Noise >= popts.NoiseCap {
		summary.CapReached = true
	}
	summary.Digest = Digest(records)
	return records, summary, nil
}
