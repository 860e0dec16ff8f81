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

// Package dataset implements an in-memory tabular dataset of named columns
// and rows of opaque text values, as extracted from bulk reference-data
// snapshots. The package performs no type coercion: every cell is a string.
package dataset

import (
	"github.com/stockparfait/errors"
)

// Projection is an ordered set of case-sensitive column names to materialize.
// A nil Projection selects the full schema.
type Projection []string

// Dataset is a table of rows by named columns. All cell values are opaque
// text. Each row is expected to have exactly len(Columns) cells.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// New creates an empty Dataset with the given column names.
func New(columns ...string) *Dataset {
	return &Dataset{Columns: columns}
}

// NumRows returns the number of rows in the dataset.
func (d *Dataset) NumRows() int { return len(d.Rows) }

// NumColumns returns the number of columns in the dataset.
func (d *Dataset) NumColumns() int { return len(d.Columns) }

// ColumnIndex returns the index of the named column, or -1 when the column is
// not in the schema. Column names are case-sensitive.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns all the values of the named column in row order.
func (d *Dataset) Column(name string) ([]string, error) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil, errors.Reason("column '%s' is not in the dataset", name)
	}
	vals := make([]string, len(d.Rows))
	for i, r := range d.Rows {
		vals[i] = r[idx]
	}
	return vals, nil
}

// Project filters the dataset to the requested columns, in projection order.
// Requested columns absent from the schema are skipped and returned as the
// second value; they never cause an error. A nil projection returns the
// dataset itself.
func (d *Dataset) Project(p Projection) (*Dataset, []string) {
	if p == nil {
		return d, nil
	}
	keep := make([]int, 0, len(p))
	columns := make([]string, 0, len(p))
	var dropped []string
	for _, name := range p {
		idx := d.ColumnIndex(name)
		if idx < 0 {
			dropped = append(dropped, name)
			continue
		}
		keep = append(keep, idx)
		columns = append(columns, name)
	}
	res := &Dataset{Columns: columns, Rows: make([][]string, len(d.Rows))}
	for i, r := range d.Rows {
		row := make([]string, len(keep))
		for j, idx := range keep {
			row[j] = r[idx]
		}
		res.Rows[i] = row
	}
	return res, dropped
}

// ApproxMemory estimates the in-memory footprint of the dataset in bytes:
// the cell contents plus the string and slice headers.
func (d *Dataset) ApproxMemory() int64 {
	const stringHeader = 16
	const sliceHeader = 24
	var size int64
	for _, c := range d.Columns {
		size += stringHeader + int64(len(c))
	}
	for _, r := range d.Rows {
		size += sliceHeader
		for _, v := range r {
			size += stringHeader + int64(len(v))
		}
	}
	return size
}
