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
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/leidata/leidata/dataset"
	"github.com/leidata/leidata/goldencopy"
	"github.com/leidata/leidata/summary"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	CacheDir string // default: ~/.leidata
	Date     string // required, YYYY-MM-DD
	Time     string // publication time as HH:MM; default: midnight
	Variant  string // snapshot variant; default: lei2
	Kind     string // content kind; default: csv; non-csv requires -path
	Columns  string // comma-separated column names; default: full schema
	InMemory bool   // process the snapshot without caching it on disk
	Freq     string // column to print value frequencies for
	Top      int    // with -freq, keep only the top N values
	Complete bool   // print per-column completeness instead of rows
	Rows     int    // max rows to print; 0 prints all
	Path     bool   // print the cached archive path instead of data
	CSV      bool   // dump CSV format; default: text
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("gc-download", flag.ExitOnError)
	fs.StringVar(&flags.CacheDir, "cache",
		filepath.Join(os.Getenv("HOME"), ".leidata"),
		"path to the snapshot cache")
	fs.StringVar(&flags.Date, "date", "", "snapshot date as YYYY-MM-DD (required)")
	fs.StringVar(&flags.Time, "time", "",
		"publication time as HH:MM; default: midnight")
	fs.StringVar(&flags.Variant, "variant", string(goldencopy.VariantLEI),
		"snapshot variant: lei2, rr, repex")
	fs.StringVar(&flags.Kind, "kind", string(goldencopy.KindCSV),
		"content kind: csv, json, xml; non-csv requires -path")
	fs.StringVar(&flags.Columns, "columns", "",
		"comma-separated columns to keep; default: all")
	fs.BoolVar(&flags.InMemory, "mem", false,
		"process the snapshot in memory without caching it on disk")
	fs.StringVar(&flags.Freq, "freq", "",
		"print value frequencies of the column instead of rows")
	fs.IntVar(&flags.Top, "top", 0, "with -freq, keep only the top N values")
	fs.BoolVar(&flags.Complete, "completeness", false,
		"print per-column completeness instead of rows")
	fs.IntVar(&flags.Rows, "rows", 0, "max rows to print; default: all")
	fs.BoolVar(&flags.Path, "path", false,
		"download to the cache and print the archive path only")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Date == "" {
		return nil, errors.Reason("missing required -date argument")
	}
	if flags.Path && flags.InMemory {
		return nil, errors.Reason("-path requires the on-disk cache; drop -mem")
	}
	if flags.Freq != "" && flags.Complete {
		return nil, errors.Reason("-freq and -completeness are mutually exclusive")
	}
	return &flags, err
}

type Config struct {
	URL     string   `toml:"url"`     // alternative publication endpoint
	Columns []string `toml:"columns"` // default projection
}

// parseConfig reads the optional config.toml from the cache directory. A
// missing file yields the zero Config.
func parseConfig(cacheDir string) (*Config, error) {
	filePath := filepath.Join(cacheDir, "config.toml")
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	return &c, nil
}

// projection resolves the effective projection: the -columns flag wins over
// the config file; both absent means the full schema.
func projection(flags *Flags, config *Config) dataset.Projection {
	if flags.Columns != "" {
		var p dataset.Projection
		for _, c := range strings.Split(flags.Columns, ",") {
			if c = strings.TrimSpace(c); c != "" {
				p = append(p, c)
			}
		}
		return p
	}
	if len(config.Columns) > 0 {
		return dataset.Projection(config.Columns)
	}
	return nil
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(flags.CacheDir)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	baseURL := config.URL
	if baseURL == "" {
		baseURL = goldencopy.URL
	}
	date, err := goldencopy.NewDateFromString(flags.Date)
	if err != nil {
		return errors.Annotate(err, "failed to parse -date")
	}
	tm, err := goldencopy.NewTimeOfDayFromString(flags.Time)
	if err != nil {
		return errors.Annotate(err, "failed to parse -time")
	}
	req := goldencopy.Request{
		Date:    date,
		Time:    tm,
		Kind:    goldencopy.ContentKind(flags.Kind),
		Variant: goldencopy.Variant(flags.Variant),
	}
	d := goldencopy.NewDownloaderURL(baseURL, flags.CacheDir)

	if flags.Path {
		path, err := d.Download(ctx, req)
		if err != nil {
			return errors.Annotate(err, "failed to download snapshot")
		}
		fmt.Fprintln(w, path)
		return nil
	}

	mode := goldencopy.ModeDisk
	if flags.InMemory {
		mode = goldencopy.ModeMemory
	}
	ds, err := d.RunRequest(ctx, req, mode, projection(flags, config))
	if err != nil {
		return errors.Annotate(err, "failed to load snapshot")
	}
	if flags.Freq != "" {
		if ds, err = summary.Frequencies(ds, flags.Freq, flags.Top); err != nil {
			return errors.Annotate(err, "failed to count frequencies")
		}
	}
	if flags.Complete {
		ds = summary.Completeness(ds)
	}

	params := dataset.Params{Rows: flags.Rows}
	if flags.CSV {
		if err := ds.WriteCSV(w, params); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := ds.WriteText(w, params); err != nil {
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
