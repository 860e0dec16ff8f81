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
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
)

// URL is the default base endpoint of Golden Copy publications. It may be
// overwritten in tests before creating a new Downloader.
var URL = "https://goldencopy.gleif.org/api/v2/golden-copies/publishes"

const (
	// downloadTimeout bounds one bulk-archive transfer. The payload is large;
	// a transfer either completes within it or the run fails.
	downloadTimeout = 120 * time.Second
	// copyChunkSize bounds peak memory when streaming a body to disk.
	copyChunkSize = 1 << 20
)

// Downloader fetches snapshot archives. It holds configuration only: the
// base publication endpoint and the cache directory for downloaded files.
type Downloader struct {
	baseURL  string
	cacheDir string
}

// NewDownloader creates a Downloader caching files under cacheDir.
func NewDownloader(cacheDir string) *Downloader {
	return &Downloader{baseURL: URL, cacheDir: cacheDir}
}

// NewDownloaderURL creates a Downloader for a non-default publication
// endpoint, caching files under cacheDir.
func NewDownloaderURL(baseURL, cacheDir string) *Downloader {
	return &Downloader{baseURL: baseURL, cacheDir: cacheDir}
}

// locationFileName derives the file name from the last path segment of the
// remote location.
func locationFileName(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", errors.Annotate(err, "failed to parse location '%s'", location)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", errors.Annotate(ErrLocationNotFound,
			"cannot derive a file name from '%s'", location)
	}
	return name, nil
}

// get issues the single GET of the bulk path. A non-2xx status or network
// error surfaces as an error right away; the payload is too large for a
// retry to be worth anything.
func get(ctx context.Context, location string) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	resp, err := fetch.GetRetry(ctx, location, nil, nil)
	if err != nil {
		cancel()
		return nil, nil, errors.Annotate(err, "failed to download '%s'", location)
	}
	return resp, cancel, nil
}

// DownloadFile fetches the archive at location into the cache directory,
// streaming the body to disk in fixed-size chunks, and returns the absolute
// path of the cached file.
//
// The file name is the location's last path segment unless the server names
// the file through a Content-Disposition header, in which case the server
// name wins and the save path is recomputed before writing. A file already
// present under the derived name is a cache hit: the path is returned
// without any network activity.
func (d *Downloader) DownloadFile(ctx context.Context, location string) (string, error) {
	name, err := locationFileName(location)
	if err != nil {
		return "", err
	}
	savePath := filepath.Join(d.cacheDir, name)
	if _, err := os.Stat(savePath); err == nil {
		logging.Infof(ctx, "file already cached, skipping download: %s", savePath)
		return filepath.Abs(savePath)
	}

	resp, cancel, err := get(ctx, location)
	if err != nil {
		return "", err
	}
	defer cancel()
	defer resp.Body.Close()

	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if fn := params["filename"]; fn != "" {
				name = filepath.Base(fn)
				savePath = filepath.Join(d.cacheDir, name)
			}
		}
	}

	if err := os.MkdirAll(d.cacheDir, 0755); err != nil {
		return "", errors.Annotate(err, "failed to create cache dir '%s'", d.cacheDir)
	}
	f, err := os.OpenFile(savePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.Annotate(err, "failed to create file '%s'", savePath)
	}
	if _, err := io.CopyBuffer(f, resp.Body, make([]byte, copyChunkSize)); err != nil {
		f.Close()
		os.Remove(savePath) // a partial file must not pass as a cache hit
		return "", errors.Annotate(err, "failed to save '%s'", savePath)
	}
	if err := f.Close(); err != nil {
		os.Remove(savePath)
		return "", errors.Annotate(err, "failed to save '%s'", savePath)
	}
	logging.Infof(ctx, "downloaded file: %s", savePath)
	return filepath.Abs(savePath)
}

// FetchBytes fetches the archive at location fully into memory and returns
// the raw bytes. This bounds usage to snapshots that fit in process memory.
func FetchBytes(ctx context.Context, location string) ([]byte, error) {
	resp, cancel, err := get(ctx, location)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read response body of '%s'", location)
	}
	return data, nil
}
