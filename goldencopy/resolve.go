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
	"fmt"
	"strings"

	"github.com/stockparfait/errors"
)

// Failure kinds of the snapshot pipeline. Callers may test for them with
// errors.Is; the annotated message carries the specifics.
var (
	// ErrInvalidContentKind signals a content kind outside {csv, json, xml}.
	// Caller error, never retried.
	ErrInvalidContentKind = errors.Reason("invalid content kind")
	// ErrInvalidTemporalInput signals a malformed date or time. Caller error,
	// never retried.
	ErrInvalidTemporalInput = errors.Reason("invalid date or time")
	// ErrLocationNotFound signals a remote location from which no file name
	// can be derived.
	ErrLocationNotFound = errors.Reason("no file name in location")
	// ErrNoTabularPayload signals an archive with no CSV entry inside.
	ErrNoTabularPayload = errors.Reason("no CSV payload in archive")
)

// ContentKind is the serialization format of a published snapshot.
type ContentKind string

// Values of ContentKind.
const (
	KindCSV  = ContentKind("csv")
	KindJSON = ContentKind("json")
	KindXML  = ContentKind("xml")
)

// ext maps the content kind to its file extension.
func (k ContentKind) ext() (string, error) {
	switch ContentKind(strings.ToLower(string(k))) {
	case KindCSV:
		return ".csv", nil
	case KindJSON:
		return ".json", nil
	case KindXML:
		return ".xml", nil
	}
	return "", errors.Annotate(ErrInvalidContentKind,
		"'%s' is not one of csv, json, xml", k)
}

// Variant selects the sub-dataset within a snapshot.
type Variant string

// Values of Variant.
const (
	VariantLEI                 = Variant("lei2")  // entity records
	VariantRelationships       = Variant("rr")    // relationship records
	VariantReportingExceptions = Variant("repex") // reporting exceptions
)

// Request identifies one snapshot publication. The zero Time means midnight,
// the conventional time of the daily full publication.
type Request struct {
	Date    Date
	Time    TimeOfDay
	Kind    ContentKind
	Variant Variant
}

// TimeToken returns the canonical YYYYMMDD-HHMM publication token of the
// request.
func (r Request) TimeToken() string {
	return fmt.Sprintf("%04d%02d%02d-%02d%02d",
		r.Date.Year(), r.Date.Month(), r.Date.Day(),
		r.Time.Hour(), r.Time.Minute())
}

// ResolveURL derives the fully qualified download location of the requested
// snapshot from the base publication endpoint. It is a pure computation:
// identical requests always resolve to byte-identical locations, and no
// network activity takes place.
func ResolveURL(base string, r Request) (string, error) {
	if !r.Date.IsValid() {
		return "", errors.Annotate(ErrInvalidTemporalInput,
			"'%s' is not a valid date", r.Date)
	}
	if !r.Time.IsValid() {
		return "", errors.Annotate(ErrInvalidTemporalInput,
			"'%s' is not a valid time", r.Time)
	}
	ext, err := r.Kind.ext()
	if err != nil {
		return "", err
	}
	variant := strings.ToLower(string(r.Variant))
	return strings.TrimRight(base, "/") + "/" + variant + "/" + r.TimeToken() + ext, nil
}
