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

// Package summary computes simple diagnostics over a dataset, for a quick
// look at what a snapshot contains before any downstream processing.
package summary

import (
	"strconv"

	"github.com/stockparfait/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/leidata/leidata/dataset"
)

// Frequencies counts the distinct values of a column and returns them as a
// two-column dataset of value and count, most frequent first. Ties break by
// value. A topN > 0 keeps only the topN most frequent values.
func Frequencies(d *dataset.Dataset, column string, topN int) (*dataset.Dataset, error) {
	vals, err := d.Column(column)
	if err != nil {
		return nil, errors.Annotate(err, "cannot count frequencies")
	}
	counts := make(map[string]int)
	for _, v := range vals {
		counts[v]++
	}
	keys := maps.Keys(counts)
	slices.SortFunc(keys, func(a, b string) bool {
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return a < b
	})
	if topN > 0 && topN < len(keys) {
		keys = keys[:topN]
	}
	res := dataset.New(column, "Count")
	for _, k := range keys {
		res.Rows = append(res.Rows, []string{k, strconv.Itoa(counts[k])})
	}
	return res, nil
}

// Completeness reports the share of non-empty cells per column, in [0, 1]
// with four decimal places, as a two-column dataset in schema order. A
// dataset with no rows reports 0 for every column.
func Completeness(d *dataset.Dataset) *dataset.Dataset {
	res := dataset.New("Column", "Completeness")
	for i, col := range d.Columns {
		var filled int
		for _, r := range d.Rows {
			if r[i] != "" {
				filled++
			}
		}
		var share float64
		if d.NumRows() > 0 {
			share = float64(filled) / float64(d.NumRows())
		}
		res.Rows = append(res.Rows,
			[]string{col, strconv.FormatFloat(share, 'f', 4, 64)})
	}
	return res
}
