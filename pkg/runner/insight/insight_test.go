package insight

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/gateway"
	"tableflip.dev/daylog/pkg/printers"
	"tableflip.dev/daylog/pkg/session"
)

type backend struct {
	records []activity.Record
	asked   []activity.ID
	err     error
}

func (b *backend) List(context.Context, int, int) ([]activity.Record, error) {
	return b.records, nil
}

func (b *backend) Create(_ context.Context, r activity.Record) (activity.Record, error) {
	return r, nil
}

func (b *backend) Insight(_ context.Context, r activity.Record) (string, error) {
	b.asked = append(b.asked, r.ID)
	if b.err != nil {
		return "", b.err
	}
	return "Sleep is steady at " + activity.FormatHours(r.Sleep) + " hours.", nil
}

func fixture() *backend {
	return &backend{records: []activity.Record{
		{ID: "a", Date: activity.MustParseDate("2024-06-01"), Work: 8, Sleep: 6},
		{ID: "b", Date: activity.MustParseDate("2024-06-02"), Work: 5, Sleep: 8},
	}}
}

func run(t *testing.T, be *backend, id activity.ID) (string, *session.Manager, error) {
	t.Helper()
	var out bytes.Buffer
	mgr := session.New(&gateway.Local{Backend: be})
	n := &Insight{
		Session: mgr,
		Printer: &printers.PrettyPrint{Out: &out, Plain: true},
		ID:      id,
	}
	err := n.Do(context.Background())
	return out.String(), mgr, err
}

func TestInsightDefaultsToLatest(t *testing.T) {
	be := fixture()
	out, mgr, err := run(t, be, "")
	if err != nil {
		t.Fatalf("insight: %v", err)
	}
	if len(be.asked) != 1 || be.asked[0] != "b" {
		t.Fatalf("expected latest record, asked %v", be.asked)
	}
	if !strings.Contains(out, "Insight for 2024-06-02") || !strings.Contains(out, "8 hours") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	snap := mgr.Snapshot()
	if snap.Selected == nil || snap.Selected.ID != "b" {
		t.Fatalf("expected selection to follow the record, got %+v", snap.Selected)
	}
}

func TestInsightByID(t *testing.T) {
	be := fixture()
	out, _, err := run(t, be, "a")
	if err != nil {
		t.Fatalf("insight: %v", err)
	}
	if !strings.Contains(out, "6 hours") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestInsightUnknownID(t *testing.T) {
	_, _, err := run(t, fixture(), "zzz")
	if err == nil || !strings.Contains(err.Error(), "zzz") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestInsightNoActivities(t *testing.T) {
	_, _, err := run(t, &backend{}, "")
	if !errors.Is(err, ErrNoActivities) {
		t.Fatalf("expected ErrNoActivities, got %v", err)
	}
}

func TestInsightFailurePrintsFallback(t *testing.T) {
	be := fixture()
	be.err = errors.New("model offline")
	out, _, err := run(t, be, "")
	if !errors.Is(err, gateway.ErrRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if !strings.Contains(out, session.InsightFallback) {
		t.Fatalf("fallback text missing:\n%s", out)
	}
}
