// Package events publishes activity lifecycle messages for downstream
// consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"tableflip.dev/daylog/pkg/activity"
)

// DefaultTopic receives ActivityCreated messages.
const DefaultTopic = "daylog.activity.created"

// ActivityCreated is emitted once a record has been stored.
type ActivityCreated struct {
	ActivityID string        `json:"activity_id"`
	Date       activity.Date `json:"date"`
	Work       float64       `json:"work"`
	Leisure    float64       `json:"leisure"`
	Sleep      float64       `json:"sleep"`
	Exercise   float64       `json:"exercise"`
	Summary    string        `json:"summary,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewActivityCreated builds the message for r.
func NewActivityCreated(r activity.Record, at time.Time) ActivityCreated {
	return ActivityCreated{
		ActivityID: string(r.ID),
		Date:       r.Date,
		Work:       r.Work,
		Leisure:    r.Leisure,
		Sleep:      r.Sleep,
		Exercise:   r.Exercise,
		Summary:    r.Summary,
		OccurredAt: at.UTC(),
	}
}

func (e ActivityCreated) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishActivityCreated(ctx context.Context, ev ActivityCreated) error
	Close() error
}

// Nop discards everything. Used when no brokers are configured.
type Nop struct{}

func (Nop) PublishActivityCreated(context.Context, ActivityCreated) error { return nil }
func (Nop) Close() error                                              { return nil }
