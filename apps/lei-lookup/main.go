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
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"golang.org/x/exp/slices"

	"github.com/leidata/leidata/dataset"
	"github.com/leidata/leidata/leiapi"
)

type Flags struct {
	LEI      string // required
	API      string // alternative API base URL
	Retries  int    // attempts per API call
	CSV      bool   // dump CSV format; default: text
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("lei-lookup", flag.ExitOnError)
	fs.StringVar(&flags.LEI, "lei", "", "LEI to look up (required)")
	fs.StringVar(&flags.API, "api", "", "API base URL; default: the GLEIF API")
	fs.IntVar(&flags.Retries, "retries", 3, "attempts per API call")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.LEI == "" {
		return nil, errors.Reason("missing required -lei argument")
	}
	return &flags, err
}

// flatten folds a nested attribute map into dotted leaf keys. Non-map leaf
// values render with %v; slices render as JSON to stay unambiguous.
func flatten(prefix string, v interface{}, out map[string]string) {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, sub := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, sub, out)
		}
	case []interface{}:
		data, err := json.Marshal(val)
		if err != nil {
			out[prefix] = fmt.Sprintf("%v", val)
			return
		}
		out[prefix] = string(data)
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = fmt.Sprintf("%v", val)
	}
}

// attributesTable renders the flattened attributes as a two-column dataset
// sorted by attribute name.
func attributesTable(attrs map[string]interface{}) *dataset.Dataset {
	flat := make(map[string]string)
	flatten("", attrs, flat)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	ds := dataset.New("Attribute", "Value")
	for _, k := range keys {
		ds.Rows = append(ds.Rows, []string{k, flat[k]})
	}
	return ds
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	client := leiapi.NewClient()
	if flags.API != "" {
		client.BaseURL = flags.API
	}
	if flags.Retries > 0 {
		client.Retries = flags.Retries
	}
	attrs, err := client.LEIAttributes(ctx, flags.LEI)
	if err != nil {
		return errors.Annotate(err, "failed to look up %s", flags.LEI)
	}
	ds := attributesTable(attrs)
	if flags.CSV {
		if err := ds.WriteCSV(w, dataset.Params{}); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := ds.WriteText(w, dataset.Params{}); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := run(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
