// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package post

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// FixDateString turns a bare "yyyy-mm-dd" into local midnight,
// "yyyy-mm-ddT00:00". Anything else is returned unchanged.
func FixDateString(s string) string {
	if len(s) == len(time.DateOnly) {
		return s + "T00:00"
	}
	return s
}

// ParseDate parses the date formats found in post front matter. Dates
// without a zone are local time.
func ParseDate(s string) (time.Time, error) {
	s = FixDateString(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// DateLabel is one of the "published" / "updated" lines of a header.
type DateLabel struct {
	Label string
	// Ago is the distance from now, e.g. "3 days ago". A future date reads
	// "ago" as well.
	Ago string
	// Human is the calendar date, e.g. "Mar 1st, 2024".
	Human string
}

// IsZero reports whether the label renders as nothing.
func (d DateLabel) IsZero() bool {
	return d.Label == "" && d.Ago == "" && d.Human == ""
}

func (d DateLabel) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Label + " " + d.Ago
}

// NewDateLabel builds the label for date relative to now. An empty date
// yields the zero label.
func NewDateLabel(date, label string, now time.Time) (DateLabel, error) {
	if date == "" {
		return DateLabel{}, nil
	}
	t, err := ParseDate(date)
	if err != nil {
		return DateLabel{}, err
	}
	return DateLabel{
		Label: label,
		Ago:   humanize.RelTime(t, now, "ago", "ago"),
		Human: HumanDate(t),
	}, nil
}

// HumanDate formats t as "Jan 2nd, 2006".
func HumanDate(t time.Time) string {
	return fmt.Sprintf("%s %s, %d", t.Format("Jan"), humanize.Ordinal(t.Day()), t.Year())
}
