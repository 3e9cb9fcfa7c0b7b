package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar date without time of day, always held in UTC.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	"02-01-2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts any of the supported layouts. An empty string yields the
// zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}

	return Date{}, fmt.Errorf("cannot parse date: %s", s)
}

// String renders the ISO form, or "" for the zero Date.
func (d Date) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format(dateLayout)
}

// Display renders MM/dd/yyyy, the form used in entity descriptions.
func (d Date) Display() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format("01/02/2006")
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid date format (string expected): %w", err)
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte(`null`), nil
	}

	return json.Marshal(d.String())
}
