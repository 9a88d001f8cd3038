package prompt

import (
	"errors"
	"testing"

	"tableflip.dev/daylog/pkg/activity"
)

func TestFieldsAsksInFormOrder(t *testing.T) {
	var asked []string
	answers := map[string]string{
		"Date (YYYY-MM-DD)": "2024-06-03",
		"Sleep hours":       " 7.5 ",
	}
	ask := func(label, def string, validate func(string) error) (string, error) {
		asked = append(asked, label)
		if a, ok := answers[label]; ok {
			if err := validate(a); err != nil {
				t.Fatalf("%s: %q rejected: %v", label, a, err)
			}
			return a, nil
		}
		return def, nil
	}

	got, err := Fields(ask, map[activity.Field]string{activity.FieldWork: "8"})
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	want := []string{"Date (YYYY-MM-DD)", "Work hours", "Leisure hours", "Sleep hours", "Exercise hours"}
	if len(asked) != len(want) {
		t.Fatalf("asked %v", asked)
	}
	for i := range want {
		if asked[i] != want[i] {
			t.Fatalf("asked %v, want %v", asked, want)
		}
	}
	if got[activity.FieldWork] != "8" || got[activity.FieldSleep] != "7.5" || got[activity.FieldDate] != "2024-06-03" {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestFieldsStopsOnError(t *testing.T) {
	interrupted := errors.New("^C")
	ask := func(string, string, func(string) error) (string, error) {
		return "", interrupted
	}
	if _, err := Fields(ask, nil); !errors.Is(err, interrupted) {
		t.Fatalf("expected interrupt, got %v", err)
	}
}

func TestValidator(t *testing.T) {
	tests := []struct {
		field activity.Field
		input string
		ok    bool
	}{
		{activity.FieldDate, "2024-06-03", true},
		{activity.FieldDate, "tomorrow", false},
		{activity.FieldWork, "8", true},
		{activity.FieldWork, " 0.25", true},
		{activity.FieldSleep, "-1", false},
		{activity.FieldExercise, "lots", false},
	}
	for _, tt := range tests {
		err := Validator(tt.field)(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("%s %q: got err %v, want ok=%v", tt.field, tt.input, err, tt.ok)
		}
	}
}
