package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/events"
	"tableflip.dev/daylog/pkg/insight"
	"tableflip.dev/daylog/pkg/store"
)

type stubGenerator struct {
	summary string
	insight string
	err     error
}

func (g stubGenerator) Summary(context.Context, activity.Record) (string, error) {
	return g.summary, g.err
}

func (g stubGenerator) Insight(context.Context, activity.Record) (string, error) {
	return g.insight, g.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ActivityCreated
	err    error
}

func (p *recordingPublisher) PublishActivityCreated(_ context.Context, ev events.ActivityCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func newTestService(t *testing.T, gen insight.Generator, opts ...ServiceOption) *Service {
	t.Helper()
	st, err := store.NewDiskv(t.TempDir())
	require.NoError(t, err)
	svc := NewService(st, gen, opts...)
	var n int
	svc.newID = func() activity.ID {
		n++
		return activity.ID(fmt.Sprintf("id-%02d", n))
	}
	return svc
}

func day(date string, work float64) activity.Record {
	return activity.Record{Date: activity.MustParseDate(date), Work: work, Leisure: 2, Sleep: 8, Exercise: 1}
}

func TestServiceCreateAssignsIDAndSummary(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, stubGenerator{summary: "solid day"}, WithPublisher(pub))
	ctx := context.Background()

	in := day("2024-06-01", 8)
	in.ID = "client-chosen"
	in.Summary = "client summary"
	got, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, activity.ID("id-01"), got.ID)
	assert.Equal(t, "solid day", got.Summary)

	stored, err := svc.Get(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "id-01", pub.events[0].ActivityID)
}

func TestServiceSummaryFallback(t *testing.T) {
	svc := newTestService(t, stubGenerator{err: errors.New("model offline")})
	got, err := svc.Create(context.Background(), day("2024-06-01", 8))
	require.NoError(t, err)
	assert.Equal(t, insight.SummaryFallback, got.Summary)

	nilGen := newTestService(t, nil)
	got, err = nilGen.Create(context.Background(), day("2024-06-01", 8))
	require.NoError(t, err)
	assert.Equal(t, insight.SummaryFallback, got.Summary)
}

func TestServicePublishFailureDoesNotFailCreate(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(t, stubGenerator{summary: "ok"}, WithPublisher(pub))
	_, err := svc.Create(context.Background(), day("2024-06-01", 8))
	require.NoError(t, err)
}

func TestServiceRejectsInvalid(t *testing.T) {
	svc := newTestService(t, stubGenerator{})
	_, err := svc.Create(context.Background(), activity.Record{Work: 1})
	assert.ErrorIs(t, err, ErrInvalid)

	neg := day("2024-06-01", -1)
	_, err = svc.Create(context.Background(), neg)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestServiceListDefaultsAndOrder(t *testing.T) {
	svc := newTestService(t, stubGenerator{summary: "s"})
	ctx := context.Background()
	for _, d := range []string{"2024-06-03", "2024-06-01", "2024-06-02"} {
		_, err := svc.Create(ctx, day(d, 1))
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-06-03", all[0].Date.String())
	assert.Equal(t, "2024-06-02", all[2].Date.String())

	page, err := svc.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, activity.ID("id-02"), page[0].ID)
}

func TestServiceUpdateAndDelete(t *testing.T) {
	gen := &stubGenerator{summary: "first"}
	svc := newTestService(t, gen)
	ctx := context.Background()

	created, err := svc.Create(ctx, day("2024-06-01", 8))
	require.NoError(t, err)

	gen.summary = "second"
	updated, err := svc.Update(ctx, created.ID, day("2024-06-01", 10))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 10.0, updated.Work)
	assert.Equal(t, "second", updated.Summary)

	_, err = svc.Update(ctx, "missing", day("2024-06-01", 1))
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, deleted)

	_, err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestServiceInsightFallback(t *testing.T) {
	svc := newTestService(t, stubGenerator{insight: "sleep more"})
	text, err := svc.Insight(context.Background(), day("2024-06-01", 8))
	require.NoError(t, err)
	assert.Equal(t, "sleep more", text)

	failing := newTestService(t, stubGenerator{err: errors.New("timeout")})
	text, err = failing.Insight(context.Background(), day("2024-06-01", 8))
	require.NoError(t, err)
	assert.Equal(t, insight.InsightFallback, text)
}
