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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockparfait/fetch"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDownload(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_download")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("DownloadFile works", t, func() {
		Convey("downloads and caches the file", func() {
			var requests int
			server := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					requests++
					w.Write([]byte("archive payload"))
				}))
			defer server.Close()
			ctx := fetch.UseClient(context.Background(), server.Client())

			cacheDir := filepath.Join(tmpdir, "cache")
			d := NewDownloader(cacheDir)
			location := server.URL + "/lei2/20250922-0000.csv"

			path, err := d.DownloadFile(ctx, location)
			So(err, ShouldBeNil)
			So(filepath.Base(path), ShouldEqual, "20250922-0000.csv")
			So(requests, ShouldEqual, 1)
			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "archive payload")

			Convey("the second call is a cache hit with no transfer", func() {
				again, err := d.DownloadFile(ctx, location)
				So(err, ShouldBeNil)
				So(again, ShouldEqual, path)
				So(requests, ShouldEqual, 1)
			})
		})

		Convey("a server-disposed file name wins", func() {
			server := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Disposition",
						`attachment; filename="lei2-golden-copy.zip"`)
					w.Write([]byte("named payload"))
				}))
			defer server.Close()
			ctx := fetch.UseClient(context.Background(), server.Client())

			d := NewDownloader(filepath.Join(tmpdir, "disposed"))
			path, err := d.DownloadFile(ctx, server.URL+"/lei2/20250922-0000.zip")
			So(err, ShouldBeNil)
			So(filepath.Base(path), ShouldEqual, "lei2-golden-copy.zip")
		})

		Convey("fails on a non-2xx status without leaving a file", func() {
			server := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					http.NotFound(w, r)
				}))
			defer server.Close()
			ctx := fetch.UseClient(context.Background(), server.Client())

			cacheDir := filepath.Join(tmpdir, "missing")
			d := NewDownloader(cacheDir)
			_, err := d.DownloadFile(ctx, server.URL+"/lei2/20250101-0000.csv")
			So(err, ShouldNotBeNil)
			_, err = os.Stat(filepath.Join(cacheDir, "20250101-0000.csv"))
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("fails when no file name can be derived", func() {
			d := NewDownloader(tmpdir)
			_, err := d.DownloadFile(context.Background(), "https://example.org/")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "no file name in location")
		})
	})

	Convey("FetchBytes buffers the full body", t, func() {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("in-memory payload"))
			}))
		defer server.Close()
		ctx := fetch.UseClient(context.Background(), server.Client())

		data, err := FetchBytes(ctx, server.URL+"/lei2/20250922-0000.csv")
		So(err, ShouldBeNil)
		So(string(data), ShouldEqual, "in-memory payload")
	})
}
