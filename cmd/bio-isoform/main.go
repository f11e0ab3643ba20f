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
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/isoform/encoding/bed"
	"github.com/grailbio/isoform/interval"
	"github.com/grailbio/isoform/isoform"
	"v.io/x/lib/cmdline"
)

// classifyFlags holds the classify flag values.  The string-typed options are
// converted when the command runs.
type classifyFlags struct {
	opts        isoform.Opts
	noisePolicy string
	indexKind   string
}

func newCmdClassify() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "classify",
		Short:    "Emit single-isoform and noise regions",
		ArgsName: "refpath obspath outpath",
	}
	flags := classifyFlags{opts: isoform.DefaultOpts}
	cmd.Flags.IntVar(&flags.opts.MinLength, "min-length", isoform.DefaultOpts.MinLength, "Observed intervals must be strictly longer than this (stop - start) to be reported as single-isoform")
	cmd.Flags.IntVar(&flags.opts.NoiseCap, "noise-cap", isoform.DefaultOpts.NoiseCap, "Maximum number of NOISE records to emit")
	cmd.Flags.StringVar(&flags.noisePolicy, "noise-policy", string(isoform.DefaultOpts.NoisePolicy), `How -noise-cap is applied.
'global' caps the whole run, walking chromosomes in lexicographic order.
'per-chrom' caps each chromosome separately.`)
	cmd.Flags.IntVar(&flags.opts.Parallelism, "parallelism", isoform.DefaultOpts.Parallelism, "Maximum number of chromosomes classified concurrently; 0 = runtime.NumCPU()")
	cmd.Flags.StringVar(&flags.indexKind, "index", string(isoform.DefaultOpts.IndexKind), "Reference index implementation, 'array' or 'tree'")
	cmd.Flags.StringVar(&flags.opts.Region, "region", isoform.DefaultOpts.Region, "Restrict classification to observed intervals overlapping this region. Format as <chrom>:<start>-<stop>, <chrom>:<pos>, or just <chrom>")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		return classify(env.Stdout, argv, flags)
	})
	return cmd
}

// classify runs isoform.Run on argv (refpath obspath outpath) and prints the
// summary to out.
func classify(out io.Writer, argv []string, flags classifyFlags) error {
	if len(argv) != 3 {
		return errors.E(errors.Invalid, fmt.Sprintf("classify takes refpath obspath outpath, but found %v", argv))
	}
	opts := flags.opts
	opts.NoisePolicy = isoform.NoisePolicy(flags.noisePolicy)
	opts.IndexKind = interval.IndexKind(flags.indexKind)
	summary, err := isoform.Run(vcontext.Background(), argv[0], argv[1], argv[2], opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, summary)
	return nil
}

func newCmdQuery() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "query",
		Short:    "Print reference intervals overlapping a region",
		ArgsName: "refpath region",
	}
	indexKind := cmd.Flags.String("index", string(interval.ArrayIndex), "Reference index implementation, 'array' or 'tree'")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("query takes refpath region, but found %v", argv)
		}
		kind, err := interval.ParseIndexKind(*indexKind)
		if err != nil {
			return err
		}
		return query(env.Stdout, argv[0], argv[1], kind)
	})
	return cmd
}

// query writes every reference interval in refPath overlapping region to out.
func query(out io.Writer, refPath, region string, kind interval.IndexKind) error {
	r, err := interval.ParseRegionString(region)
	if err != nil {
		return err
	}
	entries, err := bed.ReadReference(vcontext.Background(), refPath)
	if err != nil {
		return err
	}
	ref, err := interval.NewRefSet(entries, kind)
	if err != nil {
		return err
	}
	w := bed.NewWriter(out)
	if s, ok := ref.Get(r.ChrName); ok {
		for _, iv := range s.Query(r.Start, r.Stop) {
			if err = w.Write(r.ChrName, iv.Start, iv.Stop, iv.Label); err != nil {
				break
			}
		}
	}
	if e := w.Close(); e != nil && err == nil {
		err = e
	}
	return err
}

func main() {
	shutdown := grail.Init()
	cmdline.HideGlobalFlagsExcept()
	root := &cmdline.Command{
		Name:     "bio-isoform",
		Short:    "Classify observed intervals against reference gene intervals",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdClassify(),
			newCmdQuery(),
		},
	}
	env := cmdline.EnvFromOS()
	err := cmdline.ParseAndRun(root, env, os.Args[1:])
	shutdown()
	os.Exit(cmdline.ExitCode(err, env.Stderr))
}
