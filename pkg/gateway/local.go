package gateway

import (
	"context"
	"fmt"

	"tableflip.dev/daylog/pkg/activity"
)

// Backend is the in-process surface of an Activity Store and Insight
// Generator. server.Service satisfies it.
type Backend interface {
	List(ctx context.Context, skip, limit int) ([]activity.Record, error)
	Create(ctx context.Context, r activity.Record) (activity.Record, error)
	Insight(ctx context.Context, r activity.Record) (string, error)
}

// Local adapts a Backend to the Gateway contract without a network hop.
type Local struct {
	Backend Backend
	// Limit caps FetchAll; zero pages through everything.
	Limit int
}

func (l *Local) FetchAll(ctx context.Context) ([]activity.Record, error) {
	if l.Backend == nil {
		return nil, fmt.Errorf("%w: no backend configured", ErrRemote)
	}
	var (
		out []activity.Record
		err error
	)
	if l.Limit > 0 {
		out, err = l.Backend.List(ctx, 0, l.Limit)
	} else {
		out, err = Collect(ctx, l.Backend.List)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrRemote, err)
	}
	if out == nil {
		out = []activity.Record{}
	}
	return out, nil
}

func (l *Local) Create(ctx context.Context, r activity.Record) (activity.Record, error) {
	if l.Backend == nil {
		return activity.Record{}, fmt.Errorf("%w: no backend configured", ErrRemote)
	}
	out, err := l.Backend.Create(ctx, r.WithoutServerFields())
	if err != nil {
		return activity.Record{}, fmt.Errorf("%w: create: %v", ErrRemote, err)
	}
	return out, nil
}

func (l *Local) RequestInsight(ctx context.Context, r activity.Record) (string, error) {
	if l.Backend == nil {
		return "", fmt.Errorf("%w: no backend configured", ErrRemote)
	}
	text, err := l.Backend.Insight(ctx, r)
	if err != nil {
		return "", fmt.Errorf("%w: insight: %v", ErrRemote, err)
	}
	return text, nil
}
