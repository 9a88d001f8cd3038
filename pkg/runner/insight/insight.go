package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/gateway"
	"tableflip.dev/daylog/pkg/printers"
	"tableflip.dev/daylog/pkg/session"
)

// ErrNoActivities is returned when there is nothing to ask about.
var ErrNoActivities = errors.New("no activities recorded yet")

type Insight struct {
	Session *session.Manager
	Printer *printers.PrettyPrint

	// ID picks the record; empty means the latest one.
	ID   activity.ID
	JSON bool
}

func (n *Insight) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not request insight, no session")
	}
	if err := n.Session.Initialize(ctx); err != nil {
		return err
	}

	r, err := n.pick(n.Session.Snapshot().Activities)
	if err != nil {
		return err
	}
	n.Session.SelectActivity(r)

	// On failure text is the fallback message, which is still worth showing.
	text, ierr := n.Session.RequestInsight(ctx, r)

	if n.JSON {
		b, err := json.MarshalIndent(gateway.InsightResponse{Insight: text}, "", "  ")
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(n.Printer.Out, string(b)); err != nil {
			return err
		}
		return ierr
	}

	n.Printer.Title(fmt.Sprintf("Insight for %s", r.Date))
	n.Printer.Markdown(text)
	return ierr
}

func (n *Insight) pick(records []activity.Record) (activity.Record, error) {
	if len(records) == 0 {
		return activity.Record{}, ErrNoActivities
	}
	if n.ID == "" {
		return records[len(records)-1], nil
	}
	for _, r := range records {
		if r.ID == n.ID {
			return r, nil
		}
	}
	return activity.Record{}, fmt.Errorf("activity %q not found", n.ID)
}
