// Copyright 2025 LEI Data

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"encoding/csv"
	"io"

	"github.com/stockparfait/errors"
)

// csvHeader reads the CSV header and resolves the projection against it.
// It returns the materialized column names, the source indices to keep, and
// the requested-but-absent column names. A nil projection keeps every column.
func csvHeader(r *csv.Reader, p Projection) (columns []string, keep []int, dropped []string, err error) {
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil, io.EOF
	}
	if err != nil {
		return nil, nil, nil, errors.Annotate(err, "failed to read CSV header")
	}
	if p == nil {
		keep = make([]int, len(header))
		for i := range header {
			keep[i] = i
		}
		return header, keep, nil, nil
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	for _, name := range p {
		i, ok := idx[name]
		if !ok {
			dropped = append(dropped, name)
			continue
		}
		columns = append(columns, name)
		keep = append(keep, i)
	}
	return columns, keep, dropped, nil
}

func projectRecord(record []string, keep []int) ([]string, error) {
	row := make([]string, len(keep))
	for j, idx := range keep {
		if idx >= len(record) {
			return nil, errors.Reason(
				"row has %d cells, need at least %d", len(record), idx+1)
		}
		row[j] = record[idx]
	}
	return row, nil
}

// ReadCSV parses an entire CSV stream into a Dataset. The first record is the
// header. When a projection is supplied, only the projected columns are
// materialized while parsing; projected names absent from the header are
// returned as dropped, never an error. An empty stream yields an empty
// dataset, with the whole projection dropped since it has no header to
// match.
func ReadCSV(r io.Reader, p Projection) (*Dataset, []string, error) {
	cr := csv.NewReader(r)
	columns, keep, dropped, err := csvHeader(cr, p)
	if err == io.EOF {
		return &Dataset{}, []string(p), nil
	}
	if err != nil {
		return nil, nil, err
	}
	ds := &Dataset{Columns: columns}
	for i := 0; ; i++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Annotate(err, "failed to read CSV row %d", i+1)
		}
		row, err := projectRecord(record, keep)
		if err != nil {
			return nil, nil, errors.Annotate(err, "failed to read CSV row %d", i+1)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, dropped, nil
}

// BatchReader streams a CSV source as a sequence of fixed-size row batches,
// bounding the working set over very large files. It owns any number of
// resources released by Close() in LIFO order.
type BatchReader struct {
	reader  *csv.Reader
	columns []string
	keep    []int
	size    int
	closers []io.Closer
}

// NewBatchReader reads the CSV header from r and prepares batched reads of up
// to size rows each. The second return value lists projected columns missing
// from the header; an empty source drops the whole projection. Call Close()
// when done with the batches.
func NewBatchReader(r io.Reader, p Projection, size int) (*BatchReader, []string, error) {
	if size <= 0 {
		return nil, nil, errors.Reason("batch size = %d must be > 0", size)
	}
	cr := csv.NewReader(r)
	columns, keep, dropped, err := csvHeader(cr, p)
	if err == io.EOF {
		return &BatchReader{reader: cr, size: size}, []string(p), nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &BatchReader{reader: cr, columns: columns, keep: keep, size: size}, dropped, nil
}

// Columns returns the column names of every batch.
func (b *BatchReader) Columns() []string { return b.columns }

// Next reads the next batch of up to the configured number of rows. It
// returns nil, io.EOF when there are no more rows.
func (b *BatchReader) Next() (*Dataset, error) {
	ds := &Dataset{Columns: b.columns}
	for i := 0; i < b.size; i++ {
		record, err := b.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Annotate(err, "failed to read CSV row")
		}
		row, err := projectRecord(record, b.keep)
		if err != nil {
			return nil, errors.Annotate(err, "failed to read CSV row")
		}
		ds.Rows = append(ds.Rows, row)
	}
	if len(ds.Rows) == 0 {
		return nil, io.EOF
	}
	return ds, nil
}

// AddCloser registers a resource to be released by Close().
func (b *BatchReader) AddCloser(c io.Closer) {
	b.closers = append(b.closers, c)
}

// Close releases all the registered resources in LIFO order, ignoring their
// errors.
func (b *BatchReader) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i].Close()
		b.closers = b.closers[0:i]
	}
}
