package session

import (
	"tableflip.dev/daylog/pkg/activity"
)

// Op names an asynchronous operation that can be in flight.
type Op string

const (
	OpNone       Op = ""
	OpInitialize Op = "initialize"
	OpSubmit     Op = "submit"
	OpInsight    Op = "insight"
)

// InsightFallback replaces the insight text when the generator could not be
// reached, so a failure is never mistaken for an empty insight.
const InsightFallback = "Unable to generate insight at this time."

// Snapshot is a consistent, caller-owned copy of the session state.
type Snapshot struct {
	// Activities is in store order and never nil.
	Activities []activity.Record
	Draft      activity.Draft
	// Selected is nil when nothing is selected.
	Selected *activity.Record
	// Insight holds the last insight text, or InsightFallback after a failure.
	Insight string
	Busy    bool
	// InFlight names the pending operation, OpNone when idle.
	InFlight Op
	// LastError describes the most recent failure; cleared when the next
	// operation starts.
	LastError string
}

type state struct {
	activities []activity.Record
	draft      activity.Draft
	selected   *activity.Record
	insight    string
	inFlight   Op
	lastError  string
}

func newState() state {
	return state{activities: []activity.Record{}}
}

func (s *state) snapshot() Snapshot {
	snap := Snapshot{
		Activities: cloneRecords(s.activities),
		Draft:      s.draft,
		Insight:    s.insight,
		Busy:       s.inFlight != OpNone,
		InFlight:   s.inFlight,
		LastError:  s.lastError,
	}
	if s.selected != nil {
		sel := *s.selected
		snap.Selected = &sel
	}
	return snap
}

// resolveSelection points the selection at the fresh copy of the same record
// after a refetch. Selections without an ID, or whose ID is gone, stay pinned
// to the record the user picked.
func (s *state) resolveSelection() {
	if s.selected == nil || s.selected.ID == "" {
		return
	}
	for i := range s.activities {
		if s.activities[i].ID == s.selected.ID {
			fresh := s.activities[i]
			s.selected = &fresh
			return
		}
	}
}

func cloneRecords(in []activity.Record) []activity.Record {
	out := make([]activity.Record, len(in))
	copy(out, in)
	return out
}
