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

package dataset

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func testDataset() *Dataset {
	return &Dataset{
		Columns: []string{"LEI", "Entity.LegalName", "Entity.LegalJurisdiction"},
		Rows: [][]string{
			{"529900W18LQJJN6SJ336", "Alpha GmbH", "DE"},
			{"549300ODI3047E2LIV03", "Beta Corp", "US"},
			{"213800D1EI4B9WTWWD28", "Gamma Ltd", "GB"},
		},
	}
}

func TestDataset(t *testing.T) {
	t.Parallel()

	Convey("Dataset accessors work", t, func() {
		d := testDataset()
		So(d.NumRows(), ShouldEqual, 3)
		So(d.NumColumns(), ShouldEqual, 3)
		So(d.ColumnIndex("Entity.LegalName"), ShouldEqual, 1)
		So(d.ColumnIndex("nope"), ShouldEqual, -1)

		Convey("Column", func() {
			vals, err := d.Column("Entity.LegalJurisdiction")
			So(err, ShouldBeNil)
			So(vals, ShouldResemble, []string{"DE", "US", "GB"})

			_, err = d.Column("nope")
			So(err, ShouldNotBeNil)
		})

		Convey("ApproxMemory grows with data", func() {
			So(d.ApproxMemory(), ShouldBeGreaterThan, 0)
			So(d.ApproxMemory(), ShouldBeGreaterThan, New("LEI").ApproxMemory())
		})
	})

	Convey("Project works", t, func() {
		d := testDataset()

		Convey("nil projection returns the full dataset", func() {
			p, dropped := d.Project(nil)
			So(p, ShouldEqual, d)
			So(dropped, ShouldBeNil)
		})

		Convey("selects columns in projection order", func() {
			p, dropped := d.Project(Projection{"Entity.LegalJurisdiction", "LEI"})
			So(dropped, ShouldBeNil)
			So(p.Columns, ShouldResemble, []string{"Entity.LegalJurisdiction", "LEI"})
			So(p.Rows, ShouldResemble, [][]string{
				{"DE", "529900W18LQJJN6SJ336"},
				{"US", "549300ODI3047E2LIV03"},
				{"GB", "213800D1EI4B9WTWWD28"},
			})
		})

		Convey("unknown columns are dropped, not an error", func() {
			p, dropped := d.Project(Projection{"LEI", "Entity.NextRenewalDate"})
			So(dropped, ShouldResemble, []string{"Entity.NextRenewalDate"})
			So(p.Columns, ShouldResemble, []string{"LEI"})
			So(p.NumRows(), ShouldEqual, 3)
		})

		Convey("projection is case-sensitive", func() {
			p, dropped := d.Project(Projection{"lei"})
			So(dropped, ShouldResemble, []string{"lei"})
			So(p.NumColumns(), ShouldEqual, 0)
		})
	})

	Convey("WriteCSV", t, func() {
		d := testDataset()

		Convey("Default Params", func() {
			var buf bytes.Buffer
			So(d.WriteCSV(&buf, Params{}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
LEI,Entity.LegalName,Entity.LegalJurisdiction
529900W18LQJJN6SJ336,Alpha GmbH,DE
549300ODI3047E2LIV03,Beta Corp,US
213800D1EI4B9WTWWD28,Gamma Ltd,GB
`)
		})

		Convey("Limited rows, no header", func() {
			var buf bytes.Buffer
			So(d.WriteCSV(&buf, Params{Rows: 1, NoHeader: true}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
529900W18LQJJN6SJ336,Alpha GmbH,DE
`)
		})
	})

	Convey("WriteText", t, func() {
		d := &Dataset{
			Columns: []string{"Code", "Name"},
			Rows:    [][]string{{"RA000001", "Handelsregister"}, {"RA000002", "SEC"}},
		}

		Convey("Default Params", func() {
			var buf bytes.Buffer
			So(d.WriteText(&buf, Params{}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
    Code |            Name
-------- | ---------------
RA000001 | Handelsregister
RA000002 |             SEC
`)
		})

		Convey("Limited rows and width, no header", func() {
			var buf bytes.Buffer
			So(d.WriteText(&buf, Params{Rows: 1, NoHeader: true, MaxColWidth: 8}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
RA000001 | Handel..
`)
		})
	})
}
