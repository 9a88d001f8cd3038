// Package session owns the client-side activity state: the activity list
// mirrored from the store, the draft form, the current selection, the last
// insight text and the in-flight operation.
//
// All state changes go through the five Manager operations. Initialize,
// SubmitActivity and RequestInsight call the remote gateway and are
// serialized: a second call waits until the first settles, so busy always
// describes exactly one operation and later requests settle after earlier
// ones. UpdateDraftField and SelectActivity never block on the gateway.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/gateway"
)

const defaultEventBuffer = 64

// Option customises a Manager.
type Option func(*Manager)

// WithLogger routes failure reports to l.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithEventBuffer sizes the event channel. Events beyond the buffer are
// dropped rather than blocking an operation.
func WithEventBuffer(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.eventCh = make(chan Event, n)
		}
	}
}

// Manager is the activity state manager.
type Manager struct {
	gw  gateway.Gateway
	log *slog.Logger

	// writer is held for the full duration of a gateway operation.
	writer sync.Mutex

	mu    sync.RWMutex
	state state

	eventCh chan Event
}

// New creates an empty session backed by gw.
func New(gw gateway.Gateway, opts ...Option) *Manager {
	m := &Manager{
		gw:      gw,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:   newState(),
		eventCh: make(chan Event, defaultEventBuffer),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Events exposes state change notifications, e.g. for Bubble Tea
// subscriptions.
func (m *Manager) Events() <-chan Event {
	return m.eventCh
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.snapshot()
}

// Busy reports whether an operation is in flight.
func (m *Manager) Busy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.inFlight != OpNone
}

// Initialize replaces the activity list with the store's current contents.
// On failure the previous list is kept.
func (m *Manager) Initialize(ctx context.Context) error {
	m.writer.Lock()
	defer m.writer.Unlock()
	m.begin(OpInitialize)

	records, err := m.fetchAll(ctx)

	m.mu.Lock()
	if err == nil {
		m.state.activities = records
		m.state.resolveSelection()
	}
	m.settleLocked(OpInitialize, err)
	m.mu.Unlock()

	m.emit(Event{Kind: EventOpSettled, Op: OpInitialize, Err: err})
	if err != nil {
		m.log.Error("fetch activities", "err", err)
	}
	return err
}

// UpdateDraftField stores a raw form value. Values are not validated.
func (m *Manager) UpdateDraftField(field activity.Field, value string) error {
	m.mu.Lock()
	next, err := m.state.draft.Set(field, value)
	if err == nil {
		m.state.draft = next
	}
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.emit(Event{Kind: EventDraftChanged})
	return nil
}

// SubmitActivity creates a record from draft. On success the stored record
// is appended, selected and the draft cleared in one step. On failure the
// list and draft are left as they were.
func (m *Manager) SubmitActivity(ctx context.Context, draft activity.Draft) (activity.Record, error) {
	m.writer.Lock()
	defer m.writer.Unlock()
	m.begin(OpSubmit)

	created, err := m.create(ctx, draft)

	m.mu.Lock()
	if err == nil {
		m.state.activities = append(m.state.activities, created)
		m.state.draft = activity.Draft{}
		sel := created
		m.state.selected = &sel
	}
	m.settleLocked(OpSubmit, err)
	m.mu.Unlock()

	m.emit(Event{Kind: EventOpSettled, Op: OpSubmit, Err: err})
	if err != nil {
		m.log.Error("add activity", "err", err)
		return activity.Record{}, err
	}
	return created, nil
}

// SubmitDraft submits the session's own draft buffer.
func (m *Manager) SubmitDraft(ctx context.Context) (activity.Record, error) {
	m.mu.RLock()
	draft := m.state.draft
	m.mu.RUnlock()
	return m.SubmitActivity(ctx, draft)
}

// SelectActivity makes r the current selection. The insight text is left
// untouched.
func (m *Manager) SelectActivity(r activity.Record) {
	m.mu.Lock()
	sel := r
	m.state.selected = &sel
	m.mu.Unlock()
	m.emit(Event{Kind: EventSelectionChanged})
}

// RequestInsight asks for narrative insight about r. On failure the insight
// text becomes InsightFallback, which is also returned alongside the error.
func (m *Manager) RequestInsight(ctx context.Context, r activity.Record) (string, error) {
	m.writer.Lock()
	defer m.writer.Unlock()
	m.begin(OpInsight)

	text, err := m.insight(ctx, r)
	if err != nil {
		text = InsightFallback
	}

	m.mu.Lock()
	m.state.insight = text
	m.settleLocked(OpInsight, err)
	m.mu.Unlock()

	m.emit(Event{Kind: EventOpSettled, Op: OpInsight, Err: err})
	if err != nil {
		m.log.Error("fetch insight", "err", err, "date", r.Date.String())
	}
	return text, err
}

func (m *Manager) begin(op Op) {
	m.mu.Lock()
	m.state.inFlight = op
	m.state.lastError = ""
	m.mu.Unlock()
	m.emit(Event{Kind: EventOpStarted, Op: op})
}

func (m *Manager) settleLocked(op Op, err error) {
	m.state.inFlight = OpNone
	if err != nil {
		m.state.lastError = fmt.Sprintf("%s: %v", op, err)
	}
}

func (m *Manager) emit(ev Event) {
	select {
	case m.eventCh <- ev:
	default:
		// Subscribers re-read the snapshot, so a dropped event only delays a
		// redraw.
	}
}

func (m *Manager) fetchAll(ctx context.Context) ([]activity.Record, error) {
	if m.gw == nil {
		return nil, fmt.Errorf("%w: no gateway configured", gateway.ErrRemote)
	}
	records, err := m.gw.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return cloneRecords(records), nil
}

func (m *Manager) create(ctx context.Context, draft activity.Draft) (activity.Record, error) {
	if m.gw == nil {
		return activity.Record{}, fmt.Errorf("%w: no gateway configured", gateway.ErrRemote)
	}
	rec, err := draft.Record()
	if err != nil {
		return activity.Record{}, err
	}
	return m.gw.Create(ctx, rec)
}

func (m *Manager) insight(ctx context.Context, r activity.Record) (string, error) {
	if m.gw == nil {
		return "", fmt.Errorf("%w: no gateway configured", gateway.ErrRemote)
	}
	return m.gw.RequestInsight(ctx, r)
}
