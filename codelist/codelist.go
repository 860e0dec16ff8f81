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

// Package codelist resolves GLEIF code list values, currently the
// registration authority (RA) codes, into their human readable names. The
// published code list CSV is cached on disk next to the snapshot archives,
// so repeated lookups cost a single download.
package codelist

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"

	"github.com/leidata/leidata/dataset"
	"github.com/leidata/leidata/goldencopy"
)

// URL is the default location of the published RA code list CSV.
var URL = "https://www.gleif.org/lei-data/code-lists/gleif-registration-authorities-list/2024-11-20_ra-list-v1.8.1.csv"

// nameJoiner separates the register name variants of a single RA code.
const nameJoiner = " | "

// fetchTimeout bounds the code list download. The list is a small metadata
// file, not a bulk archive.
const fetchTimeout = 30 * time.Second

// Codelists caches and resolves GLEIF code lists.
type Codelists struct {
	url      string
	cacheDir string
	timeout  time.Duration
	ra       map[string]string // RA code -> joined register names
}

// New creates a Codelists resolver caching its downloads in cacheDir.
func New(cacheDir string) *Codelists {
	return &Codelists{url: URL, cacheDir: cacheDir, timeout: fetchTimeout}
}

// raCodeColumn finds the RA code column by a normalized header match. The
// published list has renamed its headers across versions, so an exact match
// is too brittle.
func raCodeColumn(columns []string) int {
	for i, col := range columns {
		norm := strings.ToLower(col)
		if strings.Contains(norm, "registration") &&
			strings.Contains(norm, "authority") &&
			strings.Contains(norm, "code") {
			return i
		}
	}
	return -1
}

// nameColumns lists, in join order, the three columns making up a register's
// joined name: the international register name and the international and
// local names of the organisation responsible for it. The local register
// name is not part of the joined name. Matching is normalized word
// containment, like raCodeColumn.
func nameColumns(columns []string) []int {
	match := func(include []string, exclude string) int {
		for i, col := range columns {
			norm := strings.ToLower(col)
			if exclude != "" && strings.Contains(norm, exclude) {
				continue
			}
			ok := true
			for _, w := range include {
				if !strings.Contains(norm, w) {
					ok = false
					break
				}
			}
			if ok {
				return i
			}
		}
		return -1
	}
	var idx []int
	for _, sel := range []struct {
		include []string
		exclude string
	}{
		{[]string{"international", "name", "register"}, "responsible"},
		{[]string{"international", "name", "responsible"}, ""},
		{[]string{"local", "name", "responsible"}, ""},
	} {
		if i := match(sel.include, sel.exclude); i >= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// load downloads the RA list if needed and indexes it by RA code. Codes
// already loaded are kept as is.
func (c *Codelists) load(ctx context.Context) error {
	if c.ra != nil {
		return nil
	}
	dlCtx, cancel := context.WithTimeout(ctx, c.timeout)
	path, err := goldencopy.NewDownloader(c.cacheDir).DownloadFile(dlCtx, c.url)
	cancel()
	if err != nil {
		return errors.Annotate(err, "failed to fetch RA code list")
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.Annotate(err, "failed to open RA code list %s", path)
	}
	defer f.Close()
	ds, _, err := dataset.ReadCSV(f, nil)
	if err != nil {
		return errors.Annotate(err, "failed to read RA code list %s", path)
	}
	codeIdx := raCodeColumn(ds.Columns)
	if codeIdx < 0 {
		return errors.Reason("RA code list %s has no registration authority code column", path)
	}
	nameIdx := nameColumns(ds.Columns)
	c.ra = make(map[string]string, ds.NumRows())
	for _, row := range ds.Rows {
		var names []string
		for _, i := range nameIdx {
			if v := strings.TrimSpace(row[i]); v != "" {
				names = append(names, v)
			}
		}
		c.ra[row[codeIdx]] = strings.Join(names, nameJoiner)
	}
	logging.Infof(ctx, "indexed %d registration authority codes", len(c.ra))
	return nil
}

// RegistrationAuthorityName resolves a single RA code. An unknown code
// resolves to the empty string.
func (c *Codelists) RegistrationAuthorityName(ctx context.Context, code string) (string, error) {
	if err := c.load(ctx); err != nil {
		return "", errors.Annotate(err, "failed to load code lists")
	}
	return c.ra[code], nil
}

// RegistrationAuthorityNames resolves RA codes into a two-column dataset of
// code and joined register names, one row per input code in input order.
// Unknown codes get an empty name.
func (c *Codelists) RegistrationAuthorityNames(ctx context.Context, codes []string) (*dataset.Dataset, error) {
	if err := c.load(ctx); err != nil {
		return nil, errors.Annotate(err, "failed to load code lists")
	}
	it := iterator.FromSlice(codes)
	rows := iterator.Reduce[string, [][]string](it, [][]string{},
		func(code string, rows [][]string) [][]string {
			return append(rows, []string{code, c.ra[code]})
		})
	ds := dataset.New("RegistrationAuthorityID", "RegistrationAuthorityName")
	ds.Rows = rows
	return ds, nil
}
