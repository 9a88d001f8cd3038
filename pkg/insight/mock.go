package insight

import (
	"context"
	"fmt"

	"tableflip.dev/daylog/pkg/activity"
)

// Mock answers without a model, for offline use and tests.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Summary(_ context.Context, r activity.Record) (string, error) {
	return fmt.Sprintf("On %s you logged %s hours; the largest share went to %s.",
		r.Date, activity.FormatHours(r.Total()), dominant(r)), nil
}

func (m *Mock) Insight(_ context.Context, r activity.Record) (string, error) {
	switch {
	case r.Sleep < 7:
		return fmt.Sprintf("Only %s hours of sleep. Protecting a consistent bedtime tends to pay off in focus the next day.", activity.FormatHours(r.Sleep)), nil
	case r.Exercise == 0:
		return "No exercise logged. Even a short walk on busy days helps keep the habit alive.", nil
	case r.Work > 10:
		return fmt.Sprintf("%s hours of work is a long day. Watch for this becoming a trend.", activity.FormatHours(r.Work)), nil
	default:
		return "A balanced day. Keep the same rhythm and note what made it work.", nil
	}
}

func dominant(r activity.Record) activity.Category {
	best := activity.Work
	for _, c := range activity.Categories() {
		if r.Hours(c) > r.Hours(best) {
			best = c
		}
	}
	return best
}
