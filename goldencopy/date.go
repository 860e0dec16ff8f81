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
	"time"

	"github.com/stockparfait/errors"
)

// Date records a calendar date as year, month and day.
type Date struct {
	YearVal  uint16
	MonthVal uint8
	DayVal   uint8
}

// NewDate is the constructor for Date.
func NewDate(year uint16, month, day uint8) Date {
	return Date{year, month, day}
}

// NewDateFromString creates a Date from its YYYY-MM-DD representation. A
// malformed string is an ErrInvalidTemporalInput.
func NewDateFromString(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, errors.Annotate(ErrInvalidTemporalInput,
			"failed to parse date '%s'", s)
	}
	return Date{
		YearVal:  uint16(t.Year()),
		MonthVal: uint8(t.Month()),
		DayVal:   uint8(t.Day()),
	}, nil
}

func (d Date) Year() uint16 { return d.YearVal }
func (d Date) Month() uint8 { return d.MonthVal }
func (d Date) Day() uint8   { return d.DayVal }

// IsValid checks that the date is an actual calendar date.
func (d Date) IsValid() bool {
	if d.Month() < 1 || d.Month() > 12 || d.Day() < 1 {
		return false
	}
	t := time.Date(int(d.Year()), time.Month(d.Month()), int(d.Day()),
		0, 0, 0, 0, time.UTC)
	return t.Year() == int(d.Year()) &&
		t.Month() == time.Month(d.Month()) &&
		t.Day() == int(d.Day())
}

// String representation of the value.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.Month(), d.Day())
}

// TimeOfDay records a wall-clock publication time. The zero value is
// midnight, the default when a snapshot request carries no time.
type TimeOfDay struct {
	HourVal   uint8
	MinuteVal uint8
}

// NewTimeOfDay is the constructor for TimeOfDay.
func NewTimeOfDay(hour, minute uint8) TimeOfDay {
	return TimeOfDay{hour, minute}
}

// NewTimeOfDayFromString creates a TimeOfDay from its HH:MM representation.
// The empty string means midnight. A malformed string is an
// ErrInvalidTemporalInput.
func NewTimeOfDayFromString(s string) (TimeOfDay, error) {
	if s == "" {
		return TimeOfDay{}, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, errors.Annotate(ErrInvalidTemporalInput,
			"failed to parse time '%s'", s)
	}
	return TimeOfDay{uint8(t.Hour()), uint8(t.Minute())}, nil
}

func (t TimeOfDay) Hour() uint8   { return t.HourVal }
func (t TimeOfDay) Minute() uint8 { return t.MinuteVal }

// IsValid checks that the time is a valid wall-clock time.
func (t TimeOfDay) IsValid() bool {
	return t.Hour() < 24 && t.Minute() < 60
}

// String representation of the value.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
