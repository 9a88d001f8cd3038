// Package gateway is the boundary between the session state manager and the
// remote Activity Store and Insight Generator.
package gateway

import (
	"context"
	"errors"

	"tableflip.dev/daylog/pkg/activity"
)

// ErrRemote is the single failure kind surfaced by a Gateway. Transport
// errors, non-2xx statuses and malformed bodies all wrap it.
var ErrRemote = errors.New("gateway: remote operation failed")

// Gateway defines the remote operations the session depends on.
type Gateway interface {
	// FetchAll returns every activity in store order.
	FetchAll(ctx context.Context) ([]activity.Record, error)
	// Create stores a record and returns it with store-assigned fields.
	Create(ctx context.Context, r activity.Record) (activity.Record, error)
	// RequestInsight asks the insight generator about one record.
	RequestInsight(ctx context.Context, r activity.Record) (string, error)
}

// InsightResponse is the wire shape of an insight reply.
type InsightResponse struct {
	Insight string `json:"insight"`
}

// PageSize is the page size Collect requests. It matches the server's
// default list limit.
const PageSize = 100

// PageFunc returns up to limit records starting at offset skip.
type PageFunc func(ctx context.Context, skip, limit int) ([]activity.Record, error)

// Collect walks fn page by page until a short page and returns every record
// in order. A page with no unseen IDs also ends the walk, which keeps servers
// that ignore skip from looping forever.
func Collect(ctx context.Context, fn PageFunc) ([]activity.Record, error) {
	out := []activity.Record{}
	seen := map[activity.ID]bool{}
	for skip := 0; ; skip += PageSize {
		page, err := fn(ctx, skip, PageSize)
		if err != nil {
			return nil, err
		}
		fresh := 0
		for _, r := range page {
			if r.ID != "" && seen[r.ID] {
				continue
			}
			if r.ID != "" {
				seen[r.ID] = true
			}
			out = append(out, r)
			fresh++
		}
		if len(page) < PageSize || fresh == 0 {
			return out, nil
		}
	}
}
