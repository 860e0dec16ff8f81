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

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(t *testing.T) {
	t.Parallel()

	Convey("parseFlags", t, func() {
		flags, err := parseFlags([]string{
			"-lei", "529900W18LQJJN6SJ336", "-api", "https://api.example.org",
			"-csv", "-log-level", "warning"})
		So(err, ShouldBeNil)
		So(flags.LEI, ShouldEqual, "529900W18LQJJN6SJ336")
		So(flags.API, ShouldEqual, "https://api.example.org")
		So(flags.CSV, ShouldBeTrue)
		So(flags.LogLevel, ShouldEqual, logging.Warning)

		Convey("requires -lei", func() {
			_, err := parseFlags([]string{"-csv"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("run works", t, func() {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/lei-records/529900W18LQJJN6SJ336" {
					http.NotFound(w, r)
					return
				}
				w.Write([]byte(`{"data": {"type": "lei-records",
          "id": "529900W18LQJJN6SJ336",
          "attributes": {
            "lei": "529900W18LQJJN6SJ336",
            "entity": {
              "legalName": {"name": "Alpha GmbH", "language": null},
              "status": "ACTIVE"
            },
            "bic": ["AAAADEFF"]
          }}}`))
			}))
		defer server.Close()
		ctx := fetch.UseClient(context.Background(), server.Client())

		Convey("prints the flattened attributes sorted by name", func() {
			flags, err := parseFlags([]string{
				"-lei", "529900W18LQJJN6SJ336", "-api", server.URL, "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Attribute,Value
bic,"[""AAAADEFF""]"
entity.legalName.language,
entity.legalName.name,Alpha GmbH
entity.status,ACTIVE
lei,529900W18LQJJN6SJ336
`)
		})

		Convey("fails for an unknown LEI", func() {
			flags, err := parseFlags([]string{
				"-lei", "UNKNOWN", "-api", server.URL, "-retries", "1", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			err = run(ctx, flags, &buf)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed to look up UNKNOWN")
		})
	})
}
