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
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/isoform/encoding/bed"
	"github.com/grailbio/isoform/interval"
)

// Run loads the reference table at refPath and the observed table at obsPath,
// classifies, and writes the records to outPath (truncating it).  Any
// malformed or unsorted input fails the whole run before outPath is touched.
func Run(ctx context.Context, refPath, obsPath, outPath string, opts Opts) (summary Summary, err error) {
	if _, err = opts.parse(); err != nil {
		return
	}
	refEntries, err := bed.ReadReference(ctx, refPath)
	if err != nil {
		return
	}
	ref, err := interval.NewRefSet(refEntries, opts.IndexKind)
	if err != nil {
		return
	}
	obsEntries, err := bed.ReadObserved(ctx, obsPath)
	if err != nil {
		return
	}
	obs, err := interval.NewObservedSet(obsEntries)
	if err != nil {
		return
	}
	records, summary, err := Classify(ref, obs, opts)
	if err != nil {
		return
	}
	if err = WriteRecords(ctx, outPath, records); err != nil {
		return
	}
	log.Printf("isoform.Run: wrote %d record(s) to %s; %v", len(records), outPath, summary)
	return
}

// WriteRecords writes records to path as a four-column TSV, truncating any
// existing file.
func WriteRecords(ctx context.Context, path string, records []Record) (err error) {
	w, err := bed.Create(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if e := w.Close(); e != nil && err == nil {
			err = e
		}
	}()
	for _, r := range records {
		if err = w.Write(r.ChrName, r.Start, r.Stop, r.Label); err != nil {
			return err
		}
	}
	return nil
}
