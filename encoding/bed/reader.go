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
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/isoform/interval"
	"github.com/klauspost/compress/gzip"
)

// tableFormat describes the expected column layout of an input table.
type tableFormat struct {
	name      string
	minFields int
	// maxFields is -1 if trailing columns are allowed (and ignored).
	maxFields int
	// labelled tables carry a mandatory gene ID in column 4.
	labelled bool
}

var (
	referenceFormat = tableFormat{name: "reference", minFields: 4, maxFields: 4, labelled: true}
	observedFormat  = tableFormat{name: "observed", minFields: 3, maxFields: -1}
)

// maxLineLen bounds the length of a single input line.
const maxLineLen = 1 << 20

// getFields splits curLine on tabs, saving up to the first len(fields) fields,
// and returns the total number of fields on the line.
func getFields(fields [][]byte, curLine []byte) int {
	nField := 0
	pos := 0
	lineLen := len(curLine)
	for {
		end := pos
		for ; end != lineLen; end++ {
			if curLine[end] == '\t' {
				break
			}
		}
		if nField < len(fields) {
			fields[nField] = curLine[pos:end]
		}
		nField++
		if end == lineLen {
			return nField
		}
		pos = end + 1
	}
}

// parsePos parses a base-10 coordinate.  strconv.ParseInt only reads tok for
// the duration of the call, so the zero-copy conversion is safe.
func parsePos(tok []byte) (interval.PosType, error) {
	v, err := strconv.ParseInt(gunsafe.BytesToString(tok), 10, 32)
	if err != nil {
		return 0, err
	}
	return interval.PosType(v), nil
}

func malformed(name string, lineIdx int, format string, args ...interface{}) error {
	return errors.E(errors.Invalid, fmt.Sprintf("bed: %s:%d: ", name, lineIdx)+fmt.Sprintf(format, args...))
}

// scanTable parses every line of r according to format.  name identifies r in
// error messages.  Any malformed line fails the whole table.
func scanTable(r io.Reader, name string, format tableFormat) (entries []interval.Entry, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), maxLineLen)

	var fields [4][]byte
	lineIdx := 0
	prevChr := ""
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if n := len(curLine); n > 0 && curLine[n-1] == '\r' {
			curLine = curLine[:n-1]
		}
		if len(curLine) == 0 {
			continue
		}
		nField := getFields(fields[:], curLine)
		if nField < format.minFields || (format.maxFields >= 0 && nField > format.maxFields) {
			if format.maxFields == format.minFields {
				return nil, malformed(name, lineIdx, "expected %d fields, found %d", format.minFields, nField)
			}
			return nil, malformed(name, lineIdx, "expected at least %d fields, found %d", format.minFields, nField)
		}
		if len(fields[0]) == 0 {
			return nil, malformed(name, lineIdx, "empty chromosome name")
		}
		var e interval.Entry
		if e.Start, err = parsePos(fields[1]); err != nil {
			return nil, malformed(name, lineIdx, "bad start coordinate: %v", err)
		}
		if e.Stop, err = parsePos(fields[2]); err != nil {
			return nil, malformed(name, lineIdx, "bad stop coordinate: %v", err)
		}
		if e.Start > e.Stop {
			return nil, malformed(name, lineIdx, "start %d > stop %d", e.Start, e.Stop)
		}
		if format.labelled {
			if len(fields[3]) == 0 {
				return nil, malformed(name, lineIdx, "empty gene identifier")
			}
			e.Label = string(fields[3])
		}
		// Share one string per run of identical chromosome names instead of
		// allocating one per line.
		if prevChr != gunsafe.BytesToString(fields[0]) {
			prevChr = string(fields[0])
		}
		e.ChrName = prevChr
		entries = append(entries, e)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.E(err, fmt.Sprintf("bed: read %s", name))
	}
	log.Printf("bed: loaded %d %s interval(s) from %s", len(entries), format.name, name)
	return entries, nil
}

// ParseReference parses a reference table (chrom, start, stop, gene ID) from
// r.  name is used in log and error messages.
func ParseReference(r io.Reader, name string) ([]interval.Entry, error) {
	return scanTable(r, name, referenceFormat)
}

// ParseObserved parses an observed-interval table (chrom, start, stop, ...)
// from r.  Columns after the third are ignored.
func ParseObserved(r io.Reader, name string) ([]interval.Entry, error) {
	return scanTable(r, name, observedFormat)
}

// ReadReference is a wrapper for ParseReference that takes a path instead of
// an io.Reader.
func ReadReference(ctx context.Context, path string) ([]interval.Entry, error) {
	return readPath(ctx, path, referenceFormat)
}

// ReadObserved is a wrapper for ParseObserved that takes a path instead of an
// io.Reader.
func ReadObserved(ctx context.Context, path string) ([]interval.Entry, error) {
	return readPath(ctx, path, observedFormat)
}

func readPath(ctx context.Context, path string, format tableFormat) (entries []interval.Entry, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, fmt.Sprintf("bed: open %s table", format.name), path)
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = errors.E(cerr, "bed: close", path)
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, "bed: gunzip", path)
		}
		defer gz.Close() // nolint: errcheck
		reader = gz
	}
	return scanTable(reader, path, format)
}
