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
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/leidata/leidata/dataset"
)

// csvEntry selects the CSV payload of the archive: the first entry whose name
// ends in ".csv", case-insensitively, in archive-listing order. Archives are
// expected to contain exactly one; when several match, the first is used and
// a warning is logged, since the choice is ambiguous.
func csvEntry(ctx context.Context, files []*zip.File) (*zip.File, error) {
	var matches []*zip.File
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			matches = append(matches, f)
		}
	}
	if len(matches) == 0 {
		return nil, errors.Annotate(ErrNoTabularPayload,
			"archive has %d entries, none of them CSV", len(files))
	}
	if len(matches) > 1 {
		logging.Warningf(ctx, "archive contains %d CSV entries, using the first: %s",
			len(matches), matches[0].Name)
	}
	return matches[0], nil
}

// ExtractCSV extracts the CSV payload of the zip archive at zipPath into the
// root of destDir, flattening any sub-path the archive stored it under, and
// returns the path of the extracted file. A file already present at the
// destination is left untouched, so repeated calls are idempotent.
func ExtractCSV(ctx context.Context, zipPath, destDir string) (string, error) {
	z, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", errors.Annotate(err, "failed to open zip archive '%s'", zipPath)
	}
	defer z.Close()
	entry, err := csvEntry(ctx, z.File)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(destDir, filepath.Base(entry.Name))
	if _, err := os.Stat(dest); err == nil {
		logging.Infof(ctx, "CSV already extracted, skipping: %s", dest)
		return dest, nil
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", errors.Annotate(err, "failed to create directory '%s'", destDir)
	}
	rc, err := entry.Open()
	if err != nil {
		return "", errors.Annotate(err,
			"failed to open file in archive '%s'", entry.Name)
	}
	defer rc.Close()
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.Annotate(err, "failed to create file '%s'", dest)
	}
	if _, err := io.CopyBuffer(f, rc, make([]byte, copyChunkSize)); err != nil {
		f.Close()
		os.Remove(dest)
		return "", errors.Annotate(err, "failed to extract '%s'", entry.Name)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", errors.Annotate(err, "failed to extract '%s'", entry.Name)
	}
	logging.Infof(ctx, "extracted %s to %s", entry.Name, dest)
	return dest, nil
}

// ReadArchive opens a zip archive directly from the in-memory buffer and
// streams its CSV payload into a dataset without touching disk. The
// projection is pushed down to the parse: only projected columns are
// materialized. The second return value lists projected columns absent from
// the payload schema.
func ReadArchive(ctx context.Context, data []byte, p dataset.Projection) (*dataset.Dataset, []string, error) {
	r := bytes.NewReader(data)
	z, err := zip.NewReader(r, r.Size())
	if err != nil {
		return nil, nil, errors.Annotate(err, "failed to read zip archive")
	}
	entry, err := csvEntry(ctx, z.File)
	if err != nil {
		return nil, nil, err
	}
	rc, err := entry.Open()
	if err != nil {
		return nil, nil, errors.Annotate(err,
			"failed to open file in archive '%s'", entry.Name)
	}
	defer rc.Close()
	ds, dropped, err := dataset.ReadCSV(rc, p)
	if err != nil {
		return nil, nil, errors.Annotate(err, "failed to read '%s'", entry.Name)
	}
	return ds, dropped, nil
}

// OpenBatches opens the extracted CSV file at csvPath for batched reads of
// batchSize rows each, for callers that need a bounded working set over very
// large snapshots. The returned reader owns the underlying file; call its
// Close() when done.
func OpenBatches(ctx context.Context, csvPath string, p dataset.Projection, batchSize int) (*dataset.BatchReader, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open '%s'", csvPath)
	}
	br, dropped, err := dataset.NewBatchReader(f, p, batchSize)
	if err != nil {
		f.Close()
		return nil, errors.Annotate(err, "failed to read '%s'", csvPath)
	}
	br.AddCloser(f)
	if len(dropped) > 0 {
		logging.Warningf(ctx, "requested columns not in '%s': %s",
			csvPath, strings.Join(dropped, ", "))
	}
	return br, nil
}
