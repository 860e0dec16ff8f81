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

package goldencopy

import (
	"context"
	"os"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/leidata/leidata/dataset"
)

// Mode selects where the fetched snapshot lives while it is turned into a
// dataset.
type Mode int

// Values of Mode.
const (
	// ModeDisk caches the archive and the extracted CSV in the cache
	// directory; the projection is applied as a post-read filter.
	ModeDisk Mode = iota
	// ModeMemory never touches disk: the archive is buffered in memory and
	// the projection is pushed down to the CSV parse.
	ModeMemory
)

// dailyRequest is the canonical daily full snapshot: LEI entity records as
// CSV, published at midnight.
func dailyRequest(date Date) Request {
	return Request{Date: date, Kind: KindCSV, Variant: VariantLEI}
}

// Download fetches the archive of the requested publication into the cache
// directory and returns its path. A cached archive is reused without a
// network transfer.
func (d *Downloader) Download(ctx context.Context, r Request) (string, error) {
	location, err := ResolveURL(d.baseURL, r)
	if err != nil {
		return "", errors.Annotate(err, "failed to resolve snapshot URL for %s", r.Date)
	}
	logging.Infof(ctx, "snapshot location for %s: %s", r.Date, location)
	path, err := d.DownloadFile(ctx, location)
	if err != nil {
		return "", errors.Annotate(err, "failed to fetch snapshot for %s", r.Date)
	}
	return path, nil
}

// DownloadForDate fetches the daily full LEI snapshot archive for the date
// into the cache directory and returns its path.
func (d *Downloader) DownloadForDate(ctx context.Context, date Date) (string, error) {
	return d.Download(ctx, dailyRequest(date))
}

// Run retrieves the daily full LEI snapshot for the date and materializes it
// as a dataset, optionally projected to the requested columns.
func (d *Downloader) Run(ctx context.Context, date Date, mode Mode, p dataset.Projection) (*dataset.Dataset, error) {
	return d.RunRequest(ctx, dailyRequest(date), mode, p)
}

// RunRequest retrieves the requested CSV snapshot and materializes it as a
// dataset, optionally projected to the requested columns. Requested columns
// absent from the snapshot schema are logged and skipped, never an error. A
// run is all-or-nothing: any stage failure surfaces as an error with the
// date and stage attached, and no partial data is returned.
func (d *Downloader) RunRequest(ctx context.Context, r Request, mode Mode, p dataset.Projection) (*dataset.Dataset, error) {
	date := r.Date
	if kind := ContentKind(strings.ToLower(string(r.Kind))); kind != KindCSV {
		return nil, errors.Reason(
			"only csv snapshots can be materialized as a dataset, got '%s'", r.Kind)
	}
	location, err := ResolveURL(d.baseURL, r)
	if err != nil {
		return nil, errors.Annotate(err, "failed to resolve snapshot URL for %s", date)
	}
	logging.Infof(ctx, "snapshot location for %s: %s", date, location)

	var ds *dataset.Dataset
	var dropped []string
	switch mode {
	case ModeDisk:
		archivePath, err := d.DownloadFile(ctx, location)
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch snapshot for %s", date)
		}
		csvPath, err := ExtractCSV(ctx, archivePath, d.cacheDir)
		if err != nil {
			return nil, errors.Annotate(err, "failed to extract snapshot for %s", date)
		}
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, errors.Annotate(err, "failed to open snapshot CSV for %s", date)
		}
		defer f.Close()
		full, _, err := dataset.ReadCSV(f, nil)
		if err != nil {
			return nil, errors.Annotate(err, "failed to read snapshot CSV for %s", date)
		}
		ds, dropped = full.Project(p)
	case ModeMemory:
		data, err := FetchBytes(ctx, location)
		if err != nil {
			return nil, errors.Annotate(err, "failed to fetch snapshot for %s", date)
		}
		ds, dropped, err = ReadArchive(ctx, data, p)
		if err != nil {
			return nil, errors.Annotate(err, "failed to extract snapshot for %s", date)
		}
	default:
		return nil, errors.Reason("unsupported mode: %d", mode)
	}

	if len(dropped) > 0 {
		logging.Warningf(ctx, "requested columns not in the %s snapshot: %s",
			date, strings.Join(dropped, ", "))
	}
	logging.Infof(ctx, "loaded snapshot for %s: %d rows x %d columns, ~%.1f MB",
		date, ds.NumRows(), ds.NumColumns(),
		float64(ds.ApproxMemory())/(1<<20))
	return ds, nil
}
