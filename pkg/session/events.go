package session

import "fmt"

// EventKind classifies a state change notification.
type EventKind int

const (
	// EventOpStarted fires when an operation marks the session busy.
	EventOpStarted EventKind = iota
	// EventOpSettled fires when an operation clears busy, on success or failure.
	EventOpSettled
	// EventDraftChanged fires after UpdateDraftField.
	EventDraftChanged
	// EventSelectionChanged fires after SelectActivity.
	EventSelectionChanged
)

func (k EventKind) String() string {
	switch k {
	case EventOpStarted:
		return "op-started"
	case EventOpSettled:
		return "op-settled"
	case EventDraftChanged:
		return "draft-changed"
	case EventSelectionChanged:
		return "selection-changed"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event tells subscribers the session changed. It carries no state; read a
// Snapshot to render.
type Event struct {
	Kind EventKind
	Op   Op
	// Err is set on EventOpSettled when the operation failed.
	Err error
}

// Describe renders the event in a human-friendly format for logs.
func (e Event) Describe() string {
	if e.Err != nil {
		return fmt.Sprintf("%s op:%q err:%v", e.Kind, e.Op, e.Err)
	}
	if e.Op != OpNone {
		return fmt.Sprintf("%s op:%q", e.Kind, e.Op)
	}
	return e.Kind.String()
}
