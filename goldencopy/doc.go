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

// Package goldencopy retrieves GLEIF Golden Copy bulk snapshots.
//
// A snapshot is one dated publication of the bulk LEI reference dataset,
// addressed as {base}/{variant}/{YYYYMMDD-HHMM}{ext}. ResolveURL computes
// that address purely from the request; Downloader fetches the zip archive,
// either into an on-disk cache directory or fully into memory; the archive
// functions locate the single CSV payload inside the zip and materialize it
// as a dataset.Dataset, optionally restricted to a column projection.
//
// The on-disk cache is a single flat directory, append-only: the presence of
// a file under the derived name is taken as proof of a prior successful
// fetch, and no staleness check is ever performed. A half-written file left
// by a concurrent independent process is undefined behavior; within one
// process a failed write is removed so it cannot pass as a cache hit.
package goldencopy
