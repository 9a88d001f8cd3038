package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/gateway"
)

// fakeGateway scripts gateway responses. When gate is non-nil every call
// reports itself on entered and then waits for a value on gate.
type fakeGateway struct {
	mu sync.Mutex

	records  []activity.Record
	fetchErr error

	createErr error
	created   []activity.Record
	nextID    int

	insights   []string
	insightErr error

	entered chan string
	gate    chan struct{}
}

func (f *fakeGateway) wait(op string) {
	if f.entered != nil {
		f.entered <- op
	}
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeGateway) FetchAll(_ context.Context) ([]activity.Record, error) {
	f.wait("fetch")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]activity.Record(nil), f.records...), nil
}

func (f *fakeGateway) Create(_ context.Context, r activity.Record) (activity.Record, error) {
	f.wait("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return activity.Record{}, f.createErr
	}
	f.nextID++
	r.ID = activity.ID(fmt.Sprintf("srv-%d", f.nextID))
	r.Summary = "summary for " + r.Date.String()
	f.created = append(f.created, r)
	return r, nil
}

func (f *fakeGateway) RequestInsight(_ context.Context, r activity.Record) (string, error) {
	f.wait("insight")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insightErr != nil {
		return "", f.insightErr
	}
	if len(f.insights) == 0 {
		return "insight for " + r.Date.String(), nil
	}
	text := f.insights[0]
	f.insights = f.insights[1:]
	return text, nil
}

func rec(id, date string, work, leisure, sleep, exercise float64) activity.Record {
	return activity.Record{
		ID:       activity.ID(id),
		Date:     activity.MustParseDate(date),
		Work:     work,
		Leisure:  leisure,
		Sleep:    sleep,
		Exercise: exercise,
	}
}

func fullDraft(date string) activity.Draft {
	return activity.Draft{Date: date, Work: "2", Leisure: "3", Sleep: "8", Exercise: "1"}
}

var errDown = fmt.Errorf("%w: connection refused", gateway.ErrRemote)

func TestNewSessionIsEmpty(t *testing.T) {
	snap := New(&fakeGateway{}).Snapshot()
	if snap.Activities == nil || len(snap.Activities) != 0 {
		t.Fatalf("activities should start empty and non-nil, got %#v", snap.Activities)
	}
	if snap.Selected != nil || snap.Busy || snap.Insight != "" || !snap.Draft.IsEmpty() {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}
}

func TestInitializeReplacesNeverMerges(t *testing.T) {
	gw := &fakeGateway{records: []activity.Record{rec("a", "2024-06-01", 1, 1, 1, 1)}}
	m := New(gw)
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	second := []activity.Record{
		rec("c", "2024-06-03", 3, 3, 3, 3),
		rec("b", "2024-06-02", 2, 2, 2, 2),
	}
	gw.records = second
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	got := m.Snapshot().Activities
	if len(got) != len(second) {
		t.Fatalf("expected %d activities, got %d", len(second), len(got))
	}
	for i := range second {
		if got[i] != second[i] {
			t.Fatalf("activity %d: expected %+v, got %+v", i, second[i], got[i])
		}
	}
}

func TestInitializeFailureKeepsPreviousActivities(t *testing.T) {
	gw := &fakeGateway{records: []activity.Record{rec("a", "2024-06-01", 1, 1, 1, 1)}}
	m := New(gw)
	_ = m.Initialize(context.Background())

	gw.fetchErr = errDown
	err := m.Initialize(context.Background())
	if !errors.Is(err, gateway.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	snap := m.Snapshot()
	if len(snap.Activities) != 1 || snap.Activities[0].ID != "a" {
		t.Fatalf("previous activities should survive a failed fetch, got %+v", snap.Activities)
	}
	if snap.Busy {
		t.Fatalf("busy should clear after failure")
	}
	if snap.LastError == "" {
		t.Fatalf("expected failure to be reported in LastError")
	}
}

func TestFirstInitializeFailureLeavesEmpty(t *testing.T) {
	m := New(&fakeGateway{fetchErr: errDown})
	_ = m.Initialize(context.Background())
	snap := m.Snapshot()
	if snap.Activities == nil || len(snap.Activities) != 0 {
		t.Fatalf("expected empty activities, got %#v", snap.Activities)
	}
}

func TestSubmitAppendsAndSelectsAtomically(t *testing.T) {
	gw := &fakeGateway{records: []activity.Record{rec("a", "2024-06-01", 1, 1, 1, 1)}}
	m := New(gw)
	_ = m.Initialize(context.Background())

	created, err := m.SubmitActivity(context.Background(), fullDraft("2024-06-02"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.Summary == "" || created.ID == "" {
		t.Fatalf("expected server fields on created record, got %+v", created)
	}

	snap := m.Snapshot()
	last := snap.Activities[len(snap.Activities)-1]
	if last != created {
		t.Fatalf("created record should be last: got %+v want %+v", last, created)
	}
	if snap.Selected == nil || *snap.Selected != created {
		t.Fatalf("created record should be selected, got %+v", snap.Selected)
	}
}

func TestSubmitIsNeverHalfApplied(t *testing.T) {
	gw := &fakeGateway{
		entered: make(chan string, 1),
		gate:    make(chan struct{}),
	}
	m := New(gw)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.SubmitActivity(context.Background(), fullDraft("2024-06-02"))
	}()
	<-gw.entered

	stop := make(chan struct{})
	violations := make(chan string, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			snap := m.Snapshot()
			appended := len(snap.Activities) == 1
			selected := snap.Selected != nil
			if appended != selected {
				select {
				case violations <- fmt.Sprintf("appended=%v selected=%v", appended, selected):
				default:
				}
				return
			}
		}
	}()

	close(gw.gate)
	<-done
	close(stop)
	wg.Wait()

	select {
	case v := <-violations:
		t.Fatalf("observed partial submit: %s", v)
	default:
	}
}

func TestDraftResetsOnlyOnSuccess(t *testing.T) {
	gw := &fakeGateway{createErr: errDown}
	m := New(gw)
	for _, f := range activity.Fields() {
		if err := m.UpdateDraftField(f, fullDraft("2024-06-02").Get(f)); err != nil {
			t.Fatalf("update %s: %v", f, err)
		}
	}
	before := m.Snapshot().Draft

	if _, err := m.SubmitDraft(context.Background()); !errors.Is(err, gateway.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	snap := m.Snapshot()
	if snap.Draft != before {
		t.Fatalf("draft changed on failure: before %+v after %+v", before, snap.Draft)
	}
	if len(snap.Activities) != 0 || snap.Selected != nil {
		t.Fatalf("failed submit must not append or select: %+v", snap)
	}

	gw.createErr = nil
	if _, err := m.SubmitDraft(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if d := m.Snapshot().Draft; !d.IsEmpty() {
		t.Fatalf("draft should be empty after success, got %+v", d)
	}
}

func TestSubmitUnparseableDraftFailsLikeRemoteError(t *testing.T) {
	gw := &fakeGateway{}
	m := New(gw)
	_ = m.UpdateDraftField(activity.FieldWork, "a lot")
	before := m.Snapshot().Draft

	_, err := m.SubmitDraft(context.Background())
	if !errors.Is(err, activity.ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft, got %v", err)
	}
	if len(gw.created) != 0 {
		t.Fatalf("gateway should not be called for an unparseable draft")
	}
	snap := m.Snapshot()
	if snap.Draft != before || snap.Busy {
		t.Fatalf("expected draft preserved and busy cleared, got %+v", snap)
	}
}

func TestUpdateDraftFieldKeepsRawValue(t *testing.T) {
	m := New(&fakeGateway{})
	if err := m.UpdateDraftField(activity.FieldSleep, "  7.5h"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := m.Snapshot().Draft.Sleep; got != "  7.5h" {
		t.Fatalf("expected raw value, got %q", got)
	}
	if err := m.UpdateDraftField(activity.Field("mood"), "ok"); !errors.Is(err, activity.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestInsightFallbackIsDeterministic(t *testing.T) {
	m := New(&fakeGateway{insightErr: errDown})
	r := rec("a", "2024-06-01", 2, 3, 8, 1)

	text, err := m.RequestInsight(context.Background(), r)
	if !errors.Is(err, gateway.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if text != InsightFallback {
		t.Fatalf("expected fallback to be returned, got %q", text)
	}
	if got := m.Snapshot().Insight; got != InsightFallback {
		t.Fatalf("expected insight %q, got %q", InsightFallback, got)
	}
}

func TestInsightSuccessOverwritesFallback(t *testing.T) {
	gw := &fakeGateway{insightErr: errDown}
	m := New(gw)
	r := rec("a", "2024-06-01", 2, 3, 8, 1)
	_, _ = m.RequestInsight(context.Background(), r)

	gw.insightErr = nil
	gw.insights = []string{"more sleep"}
	if _, err := m.RequestInsight(context.Background(), r); err != nil {
		t.Fatalf("insight: %v", err)
	}
	if got := m.Snapshot().Insight; got != "more sleep" {
		t.Fatalf("unexpected insight %q", got)
	}
}

func TestSelectKeepsStaleInsight(t *testing.T) {
	m := New(&fakeGateway{insights: []string{"about a"}})
	a := rec("a", "2024-06-01", 1, 1, 1, 1)
	b := rec("b", "2024-06-02", 2, 2, 2, 2)

	m.SelectActivity(a)
	_, _ = m.RequestInsight(context.Background(), a)
	m.SelectActivity(b)

	snap := m.Snapshot()
	if snap.Selected == nil || snap.Selected.ID != "b" {
		t.Fatalf("expected b selected, got %+v", snap.Selected)
	}
	if snap.Insight != "about a" {
		t.Fatalf("selection must not clear insight, got %q", snap.Insight)
	}
}

func TestBusyClearsOnBothOutcomes(t *testing.T) {
	ops := map[string]func(m *Manager) error{
		"initialize": func(m *Manager) error { return m.Initialize(context.Background()) },
		"submit": func(m *Manager) error {
			_, err := m.SubmitActivity(context.Background(), fullDraft("2024-06-02"))
			return err
		},
		"insight": func(m *Manager) error {
			_, err := m.RequestInsight(context.Background(), rec("a", "2024-06-01", 1, 1, 1, 1))
			return err
		},
	}
	for name, op := range ops {
		for _, fail := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/fail=%v", name, fail), func(t *testing.T) {
				gw := &fakeGateway{
					entered: make(chan string, 1),
					gate:    make(chan struct{}),
				}
				if fail {
					gw.fetchErr, gw.createErr, gw.insightErr = errDown, errDown, errDown
				}
				m := New(gw)

				result := make(chan error, 1)
				go func() { result <- op(m) }()
				<-gw.entered

				snap := m.Snapshot()
				if !snap.Busy || snap.InFlight == OpNone {
					t.Fatalf("expected busy while in flight, got %+v", snap)
				}

				close(gw.gate)
				err := <-result
				if fail != (err != nil) {
					t.Fatalf("fail=%v but err=%v", fail, err)
				}
				snap = m.Snapshot()
				if snap.Busy || snap.InFlight != OpNone {
					t.Fatalf("expected idle after settle, got %+v", snap)
				}
			})
		}
	}
}

func TestSelectionNotReResolvedWhenMissing(t *testing.T) {
	x := rec("x", "2024-06-01", 1, 2, 3, 4)
	gw := &fakeGateway{records: []activity.Record{x}}
	m := New(gw)
	_ = m.Initialize(context.Background())
	m.SelectActivity(x)

	gw.records = []activity.Record{rec("y", "2024-06-02", 5, 5, 5, 5)}
	_ = m.Initialize(context.Background())

	snap := m.Snapshot()
	if snap.Selected == nil || *snap.Selected != x {
		t.Fatalf("selection should stay pinned to x, got %+v", snap.Selected)
	}
}

func TestSelectionWithoutIDStaysPinned(t *testing.T) {
	x := rec("", "2024-06-01", 1, 2, 3, 4)
	gw := &fakeGateway{records: []activity.Record{x}}
	m := New(gw)
	_ = m.Initialize(context.Background())
	m.SelectActivity(x)

	changed := x
	changed.Work = 9
	gw.records = []activity.Record{changed}
	_ = m.Initialize(context.Background())

	if sel := m.Snapshot().Selected; sel == nil || sel.Work != 1 {
		t.Fatalf("positional selection must not be re-resolved, got %+v", sel)
	}
}

func TestSelectionReResolvedByID(t *testing.T) {
	x := rec("x", "2024-06-01", 1, 2, 3, 4)
	gw := &fakeGateway{records: []activity.Record{x}}
	m := New(gw)
	_ = m.Initialize(context.Background())
	m.SelectActivity(x)

	fresh := x
	fresh.Summary = "recomputed"
	gw.records = []activity.Record{rec("w", "2024-05-31", 0, 0, 0, 0), fresh}
	_ = m.Initialize(context.Background())

	sel := m.Snapshot().Selected
	if sel == nil || sel.Summary != "recomputed" {
		t.Fatalf("selection should follow the refetched copy, got %+v", sel)
	}
}

func TestOperationsAreSerialized(t *testing.T) {
	gw := &fakeGateway{
		entered:  make(chan string, 2),
		gate:     make(chan struct{}),
		insights: []string{"first", "second"},
	}
	m := New(gw)
	r := rec("a", "2024-06-01", 1, 1, 1, 1)

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = m.RequestInsight(context.Background(), r)
	}()
	<-gw.entered

	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		_, _ = m.RequestInsight(context.Background(), r)
	}()

	select {
	case op := <-gw.entered:
		t.Fatalf("second %s reached the gateway while the first was in flight", op)
	case <-time.After(50 * time.Millisecond):
	}

	gw.gate <- struct{}{}
	<-firstDone
	<-gw.entered
	gw.gate <- struct{}{}
	<-secondDone

	if got := m.Snapshot().Insight; got != "second" {
		t.Fatalf("last issued request should win, got %q", got)
	}
}

func TestSelectDoesNotWaitForInFlightOperation(t *testing.T) {
	gw := &fakeGateway{
		entered: make(chan string, 1),
		gate:    make(chan struct{}),
	}
	m := New(gw)
	go func() { _ = m.Initialize(context.Background()) }()
	<-gw.entered

	selected := make(chan struct{})
	go func() {
		m.SelectActivity(rec("a", "2024-06-01", 1, 1, 1, 1))
		_ = m.UpdateDraftField(activity.FieldWork, "3")
		close(selected)
	}()
	select {
	case <-selected:
	case <-time.After(time.Second):
		t.Fatalf("select blocked behind an in-flight fetch")
	}
	close(gw.gate)
}

func TestEventsDescribeLifecycle(t *testing.T) {
	m := New(&fakeGateway{insightErr: errDown})
	_, _ = m.RequestInsight(context.Background(), rec("a", "2024-06-01", 1, 1, 1, 1))
	m.SelectActivity(rec("a", "2024-06-01", 1, 1, 1, 1))

	want := []EventKind{EventOpStarted, EventOpSettled, EventSelectionChanged}
	for i, kind := range want {
		select {
		case ev := <-m.Events():
			if ev.Kind != kind {
				t.Fatalf("event %d: expected %s, got %s", i, kind, ev.Describe())
			}
			if kind == EventOpSettled && ev.Err == nil {
				t.Fatalf("settled event should carry the failure")
			}
		default:
			t.Fatalf("event %d (%s) missing", i, kind)
		}
	}
}

func TestEventsNeverBlockOperations(t *testing.T) {
	m := New(&fakeGateway{}, WithEventBuffer(0))
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Initialize(context.Background())
		m.SelectActivity(rec("a", "2024-06-01", 1, 1, 1, 1))
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("operations blocked on an unread event channel")
	}
}

func TestNilGatewayReportsRemoteFailure(t *testing.T) {
	m := New(nil)
	if err := m.Initialize(context.Background()); !errors.Is(err, gateway.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if m.Busy() {
		t.Fatalf("busy should be cleared")
	}
}
