package list

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/daylog/pkg/printers"
	"tableflip.dev/daylog/pkg/session"
	"tableflip.dev/daylog/pkg/timeutil"
	"tableflip.dev/daylog/pkg/viewmodel"
)

type List struct {
	Session *session.Manager
	Printer *printers.PrettyPrint

	// Days limits output to the trailing window; zero lists everything.
	Days     int
	Label    string
	Calendar bool
	JSON     bool

	Now func() time.Time
}

func (l *List) Do(ctx context.Context) error {
	if l.Session == nil {
		return errors.New("can not list, no session")
	}
	if err := l.Session.Initialize(ctx); err != nil {
		return err
	}

	records := l.Session.Snapshot().Activities
	if l.Days > 0 {
		now := time.Now
		if l.Now != nil {
			now = l.Now
		}
		records = timeutil.Within(records, timeutil.Since(now(), l.Days))
	}

	if l.JSON {
		b, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(l.Printer.Out, string(b))
		return err
	}

	pp := l.Printer
	title := "Activities"
	if l.Label != "" {
		title = fmt.Sprintf("Activities · last %s", l.Label)
	}
	pp.TitleWithCount(title, len(records))
	if len(records) == 0 {
		pp.NewLine()
		return nil
	}
	pp.Activities(records...)

	pp.Title("Totals")
	pp.Totals(viewmodel.Totals(records))
	pp.NewLine()

	if l.Calendar {
		pp.Calendar(records...)
	}
	return nil
}

