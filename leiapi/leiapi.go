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

// Package leiapi implements a client for the GLEIF record-level JSON API.
// Unlike the bulk golden copy path, single-record lookups are cheap to
// repeat, so the client retries failed calls with exponential backoff.
package leiapi

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
)

// URL is the default GLEIF API base URL.
var URL = "https://api.gleif.org/api/v1"

// acceptType is the JSON:API media type the GLEIF API serves.
const acceptType = "application/vnd.api+json"

// Client accesses GLEIF record-level endpoints.
type Client struct {
	BaseURL string
	Timeout time.Duration // per-call timeout
	Retries int           // total attempts per call
	Backoff float64       // sleep of Backoff^attempt seconds between attempts
}

// NewClient creates a Client with the default base URL and retry policy.
func NewClient() *Client {
	return &Client{
		BaseURL: URL,
		Timeout: 30 * time.Second,
		Retries: 3,
		Backoff: 1.5,
	}
}

// document is the JSON:API envelope around a single resource.
type document struct {
	Data struct {
		Attributes map[string]interface{} `json:"attributes"`
	} `json:"data"`
}

// getJSON fetches uri into result, retrying up to c.Retries times.
func (c *Client) getJSON(ctx context.Context, uri string, result interface{}) error {
	header := make(http.Header)
	header.Set("Accept", acceptType)

	var err error
	for attempt := 0; attempt < c.Retries; attempt++ {
		if attempt > 0 {
			pause := time.Duration(
				math.Pow(c.Backoff, float64(attempt)) * float64(time.Second))
			logging.Warningf(ctx, "retrying %s in %s after: %s", uri, pause, err.Error())
			select {
			case <-time.After(pause):
			case <-ctx.Done():
				return errors.Annotate(ctx.Err(), "canceled while retrying %s", uri)
			}
		}
		callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		err = fetch.FetchJSON(callCtx, uri, result, nil, fetch.NewParams().Retries(0))
		cancel()
		if err == nil {
			return nil
		}
	}
	return errors.Annotate(err, "failed to fetch %s after %d attempts", uri, c.Retries)
}

// LEIAttributes looks up a single LEI record and returns its attributes as
// an opaque map. A record with no attributes yields an empty map.
func (c *Client) LEIAttributes(ctx context.Context, lei string) (map[string]interface{}, error) {
	if lei == "" {
		return nil, errors.Reason("LEI must be non-empty")
	}
	uri := c.BaseURL + "/lei-records/" + lei
	var doc document
	if err := c.getJSON(ctx, uri, &doc); err != nil {
		return nil, errors.Annotate(err, "failed to look up LEI record %q", lei)
	}
	if doc.Data.Attributes == nil {
		return map[string]interface{}{}, nil
	}
	return doc.Data.Attributes, nil
}
