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
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/isoform/interval"
)

// NoisePolicy determines the scope of Opts.NoiseCap.
type NoisePolicy string

const (
	// GlobalNoise applies NoiseCap to the whole run.  Chromosomes are visited
	// in lexicographic order, so the earliest chromosomes win when the cap is
	// reached.
	GlobalNoise NoisePolicy = "global"
	// PerChromNoise applies NoiseCap to each chromosome separately.
	PerChromNoise NoisePolicy = "per-chrom"
)

// Opts controls classification.
type Opts struct {
	// MinLength is the exclusive lower bound on Stop - Start for a hit.
	MinLength int
	// NoiseCap is the maximum number of noise records (see NoisePolicy).
	NoiseCap int
	// NoisePolicy is GlobalNoise or PerChromNoise.
	NoisePolicy NoisePolicy
	// Parallelism is the maximum number of chromosomes classified
	// concurrently; 0 = runtime.NumCPU().  The output does not depend on it.
	Parallelism int
	// IndexKind selects the reference index implementation.
	IndexKind interval.IndexKind
	// Region, if nonempty, restricts classification to the observed intervals
	// overlapping a region of the form accepted by interval.ParseRegionString.
	Region string
}

// DefaultOpts are the thresholds of the single-isoform/noise heuristic.
var DefaultOpts = Opts{
	MinLength:   5000,
	NoiseCap:    3000,
	NoisePolicy: GlobalNoise,
	Parallelism: 0,
	IndexKind:   interval.ArrayIndex,
}

// parsedOpts is Opts after validation.
type parsedOpts struct {
	Opts
	hasRegion bool
	region    interval.Entry
}

func (o Opts) parse() (parsedOpts, error) {
	p := parsedOpts{Opts: o}
	if o.MinLength < 0 {
		return p, errors.E(errors.Invalid, fmt.Sprintf("isoform: negative MinLength %d", o.MinLength))
	}
	if o.NoiseCap < 0 {
		return p, errors.E(errors.Invalid, fmt.Sprintf("isoform: negative NoiseCap %d", o.NoiseCap))
	}
	switch o.NoisePolicy {
	case "":
		p.NoisePolicy = GlobalNoise
	case GlobalNoise, PerChromNoise:
	default:
		return p, errors.E(errors.Invalid, fmt.Sprintf("isoform: unknown noise policy %q", o.NoisePolicy))
	}
	var err error
	if p.IndexKind, err = interval.ParseIndexKind(string(o.IndexKind)); err != nil {
		return p, err
	}
	if o.Parallelism < 0 {
		return p, errors.E(errors.Invalid, fmt.Sprintf("isoform: negative Parallelism %d", o.Parallelism))
	}
	if o.Parallelism == 0 {
		p.Parallelism = runtime.NumCPU()
	}
	if o.Region != "" {
		if p.region, err = interval.ParseRegionString(o.Region); err != nil {
			return p, errors.E(errors.Invalid, err)
		}
		p.hasRegion = true
	}
	return p, nil
}
