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

package leiapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stockparfait/fetch"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	t.Parallel()

	Convey("LEIAttributes works", t, func() {
		Convey("returns the record attributes", func() {
			var path, accept string
			server := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					path = r.URL.Path
					accept = r.Header.Get("Accept")
					w.Write([]byte(`{"data": {"type": "lei-records",
            "id": "529900W18LQJJN6SJ336",
            "attributes": {"lei": "529900W18LQJJN6SJ336",
              "entity": {"legalName": {"name": "Alpha GmbH"}}}}}`))
				}))
			defer server.Close()
			ctx := fetch.UseClient(context.Background(), server.Client())

			c := NewClient()
			c.BaseURL = server.URL

			attrs, err := c.LEIAttributes(ctx, "529900W18LQJJN6SJ336")
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/lei-records/529900W18LQJJN6SJ336")
			So(accept, ShouldEqual, "application/vnd.api+json")
			So(attrs["lei"], ShouldEqual, "529900W18LQJJN6SJ336")
		})

		Convey("a record without attributes yields an empty map", func() {
			server := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`{"data": {"type": "lei-records", "id": "X"}}`))
				}))
			defer server.Close()
			ctx := fetch.UseClient(context.Background(), server.Client())

			c := NewClient()
			c.BaseURL = server.URL

			attrs, err := c.LEIAttributes(ctx, "X")
			So(err, ShouldBeNil)
			So(attrs, ShouldResemble, map[string]interface{}{})
		})

		Convey("retries a failing call and succeeds", func() {
			var requests int
			server := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					requests++
					if requests < 3 {
						http.Error(w, "try later", http.StatusServiceUnavailable)
						return
					}
					w.Write([]byte(`{"data": {"attributes": {"lei": "X"}}}`))
				}))
			defer server.Close()
			ctx := fetch.UseClient(context.Background(), server.Client())

			c := NewClient()
			c.BaseURL = server.URL
			c.Backoff = 0.01 // keep the test fast

			attrs, err := c.LEIAttributes(ctx, "X")
			So(err, ShouldBeNil)
			So(requests, ShouldEqual, 3)
			So(attrs["lei"], ShouldEqual, "X")
		})

		Convey("gives up after the configured attempts", func() {
			var requests int
			server := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					requests++
					http.Error(w, "down", http.StatusInternalServerError)
				}))
			defer server.Close()
			ctx := fetch.UseClient(context.Background(), server.Client())

			c := NewClient()
			c.BaseURL = server.URL
			c.Retries = 2
			c.Backoff = 0.01

			_, err := c.LEIAttributes(ctx, "X")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "after 2 attempts")
			So(requests, ShouldEqual, 2)
		})

		Convey("rejects an empty LEI without a network call", func() {
			c := NewClient()
			_, err := c.LEIAttributes(context.Background(), "")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "must be non-empty")
		})
	})
}
