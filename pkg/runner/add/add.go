package add

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/printers"
	"tableflip.dev/daylog/pkg/session"
)

// Add records one day through the session draft, the same path the
// dashboard form takes.
type Add struct {
	Session *session.Manager
	Printer *printers.PrettyPrint

	// Values holds raw form input keyed by field.
	Values map[activity.Field]string
	JSON   bool
}

func (a *Add) Do(ctx context.Context) error {
	if a.Session == nil {
		return errors.New("can not add, no session")
	}
	for _, f := range activity.Fields() {
		v, ok := a.Values[f]
		if !ok {
			continue
		}
		if err := a.Session.UpdateDraftField(f, v); err != nil {
			return err
		}
	}

	r, err := a.Session.SubmitDraft(ctx)
	if err != nil {
		return err
	}

	if a.JSON {
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.Printer.Out, string(b))
		return err
	}

	a.Printer.Title("Added " + r.Date.String())
	a.Printer.Record(r)
	return nil
}
