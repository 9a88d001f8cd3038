// Package store persists activity records for the daylog server.
package store

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/config"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("store: activity not found")

// Store defines the persistence contract for activity records. List returns
// records in creation order.
type Store interface {
	List(ctx context.Context, skip, limit int) ([]activity.Record, error)
	Get(ctx context.Context, id activity.ID) (activity.Record, error)
	// Insert stores a new record; r.ID must already be assigned.
	Insert(ctx context.Context, r activity.Record) error
	// Update replaces an existing record, keeping its position.
	Update(ctx context.Context, r activity.Record) error
	Delete(ctx context.Context, id activity.ID) error
	Close() error
}

// Open builds the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch cfg.Driver {
	case "", config.DriverDiskv:
		return NewDiskv(cfg.Path)
	case config.DriverPostgres:
		return NewPostgres(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// window applies skip/limit to an ordered slice. A non-positive limit means
// no limit.
func window(all []activity.Record, skip, limit int) []activity.Record {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) {
		return []activity.Record{}
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
