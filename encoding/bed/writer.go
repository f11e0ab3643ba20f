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
package bed

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/isoform/interval"
	"github.com/klauspost/compress/gzip"
)

// Writer writes (chrom, start, stop, label) rows.  Thread compatible.
type Writer struct {
	ctx  context.Context
	path string
	out  file.File    // nil unless created by Create
	gz   *gzip.Writer // nil unless the output is gzipped
	tsvw *tsv.Writer
	err  error
}

// NewWriter returns a Writer for w.  Close flushes, but does not close w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{tsvw: tsv.NewWriter(w)}
}

// Create creates (or truncates) the file at path and returns a Writer for it.
// If path ends in .gz, the output is gzip-compressed.
func Create(ctx context.Context, path string) (*Writer, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "bed: create", path)
	}
	w := &Writer{ctx: ctx, path: path, out: out}
	dst := out.Writer(ctx)
	if fileio.DetermineType(path) == fileio.Gzip {
		w.gz = gzip.NewWriter(dst)
		dst = w.gz
	}
	w.tsvw = tsv.NewWriter(dst)
	return w, nil
}

// Write appends one row.  Once a write fails, later calls return the same
// error.
func (w *Writer) Write(chrName string, start, stop interval.PosType, label string) error {
	if w.err != nil {
		return w.err
	}
	w.tsvw.WriteString(chrName)
	w.tsvw.WriteInt64(int64(start))
	w.tsvw.WriteInt64(int64(stop))
	w.tsvw.WriteString(label)
	if err := w.tsvw.EndLine(); err != nil {
		w.err = errors.E(err, "bed: write", w.path)
	}
	return w.err
}

// Close flushes buffered rows and, for Writers returned by Create, closes the
// file.  It returns the first error encountered by this Writer.
func (w *Writer) Close() error {
	setErr := func(e error) {
		if e != nil && w.err == nil {
			w.err = errors.E(e, "bed: close", w.path)
		}
	}
	setErr(w.tsvw.Flush())
	if w.gz != nil {
		setErr(w.gz.Close())
	}
	if w.out != nil {
		setErr(w.out.Close(w.ctx))
	}
	return w.err
}
