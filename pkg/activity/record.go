// Package activity defines the daily activity record tracked by daylog and
// the draft buffer used to build new records.
package activity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Category names one of the four tracked kinds of hours.
type Category string

const (
	Work     Category = "Work"
	Leisure  Category = "Leisure"
	Sleep    Category = "Sleep"
	Exercise Category = "Exercise"
)

// Categories returns the tracked categories in display order.
func Categories() []Category {
	return []Category{Work, Leisure, Sleep, Exercise}
}

// ID is the store-assigned identifier of a record. Stores that key records
// by integer (the original sqlite backend) are accepted too.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("activity: id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Record is one day's logged hours.
type Record struct {
	ID       ID      `json:"id,omitempty"`
	Date     Date    `json:"date"`
	Work     float64 `json:"work"`
	Leisure  float64 `json:"leisure"`
	Sleep    float64 `json:"sleep"`
	Exercise float64 `json:"exercise"`
	// Summary is computed by the store when the record is created.
	Summary string `json:"summary,omitempty"`
}

// Hours returns the value recorded for the given category.
func (r Record) Hours(c Category) float64 {
	switch c {
	case Work:
		return r.Work
	case Leisure:
		return r.Leisure
	case Sleep:
		return r.Sleep
	case Exercise:
		return r.Exercise
	}
	return 0
}

// Total sums the four categories.
func (r Record) Total() float64 {
	return r.Work + r.Leisure + r.Sleep + r.Exercise
}

// WithoutServerFields strips the fields only a store may assign, leaving the
// payload a create request carries.
func (r Record) WithoutServerFields() Record {
	r.ID = ""
	r.Summary = ""
	return r
}

func (r Record) String() string {
	return fmt.Sprintf("%s work:%s leisure:%s sleep:%s exercise:%s",
		r.Date, FormatHours(r.Work), FormatHours(r.Leisure), FormatHours(r.Sleep), FormatHours(r.Exercise))
}

// FormatHours renders hours without trailing zeros.
func FormatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
