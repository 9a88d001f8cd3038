package activity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Field names one input of the draft form.
type Field string

const (
	FieldDate     Field = "date"
	FieldWork     Field = "work"
	FieldLeisure  Field = "leisure"
	FieldSleep    Field = "sleep"
	FieldExercise Field = "exercise"
)

// Fields returns the draft fields in form order.
func Fields() []Field {
	return []Field{FieldDate, FieldWork, FieldLeisure, FieldSleep, FieldExercise}
}

var (
	// ErrUnknownField is returned when a draft field name is not one of Fields().
	ErrUnknownField = errors.New("activity: unknown draft field")
	// ErrInvalidDraft is returned when a draft cannot be converted to a Record.
	ErrInvalidDraft = errors.New("activity: invalid draft")
)

// ParseField resolves a field name, ignoring case and surrounding space.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Fields() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Draft holds raw, unparsed form input for a new record. Values are kept
// exactly as typed; parsing happens in Record.
type Draft struct {
	Date     string
	Work     string
	Leisure  string
	Sleep    string
	Exercise string
}

// Get returns the raw value of a field.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldDate:
		return d.Date
	case FieldWork:
		return d.Work
	case FieldLeisure:
		return d.Leisure
	case FieldSleep:
		return d.Sleep
	case FieldExercise:
		return d.Exercise
	}
	return ""
}

// Set returns a copy of the draft with one field replaced.
func (d Draft) Set(f Field, value string) (Draft, error) {
	switch f {
	case FieldDate:
		d.Date = value
	case FieldWork:
		d.Work = value
	case FieldLeisure:
		d.Leisure = value
	case FieldSleep:
		d.Sleep = value
	case FieldExercise:
		d.Exercise = value
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return d, nil
}

// IsEmpty reports whether no field has been filled in.
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// Record parses the draft into a record ready to be created.
func (d Draft) Record() (Record, error) {
	date, err := ParseDate(strings.TrimSpace(d.Date))
	if err != nil {
		return Record{}, fmt.Errorf("%w: date %q: %v", ErrInvalidDraft, d.Date, err)
	}
	r := Record{Date: date}
	targets := []struct {
		field Field
		dst   *float64
	}{
		{FieldWork, &r.Work},
		{FieldLeisure, &r.Leisure},
		{FieldSleep, &r.Sleep},
		{FieldExercise, &r.Exercise},
	}
	for _, t := range targets {
		raw := strings.TrimSpace(d.Get(t.field))
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %s %q", ErrInvalidDraft, t.field, raw)
		}
		*t.dst = v
	}
	return r, nil
}

// DraftFrom renders a record back into form input.
func DraftFrom(r Record) Draft {
	return Draft{
		Date:     r.Date.String(),
		Work:     FormatHours(r.Work),
		Leisure:  FormatHours(r.Leisure),
		Sleep:    FormatHours(r.Sleep),
		Exercise: FormatHours(r.Exercise),
	}
}
