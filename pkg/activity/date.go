package activity

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and display format for activity dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(v string) (Date, error) {
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(v string) Date {
	d, err := ParseDate(v)
	if err != nil {
		panic(err)
	}
	return d
}

// Date is a calendar day without a time-of-day component.
type Date struct {
	time.Time
}

// DateOf returns the calendar day t falls on in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) SameDay(other Date) bool {
	return d.Year() == other.Year() && d.YearDay() == other.YearDay()
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(v)
	if err != nil {
		// Some stores hand back full timestamps for date columns.
		t, terr := time.Parse(time.RFC3339, v)
		if terr != nil {
			return err
		}
		parsed = DateOf(t)
	}
	*d = parsed
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}
