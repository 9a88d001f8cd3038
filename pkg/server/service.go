// Package server implements the Activity Store and Insight Generator that the
// daylog clients talk to, both as an in-process Service and over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/events"
	"tableflip.dev/daylog/pkg/insight"
	"tableflip.dev/daylog/pkg/observability"
	"tableflip.dev/daylog/pkg/store"
)

// DefaultListLimit caps List when the caller does not pass a limit.
const DefaultListLimit = 100

// ErrInvalid wraps validation failures on incoming records.
var ErrInvalid = errors.New("invalid activity")

// Service coordinates storage, text generation and event publishing.
type Service struct {
	store     store.Store
	generator insight.Generator
	publisher events.Publisher
	log       *slog.Logger
	now       func() time.Time
	newID     func() activity.ID
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

func WithPublisher(p events.Publisher) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService wires a Service. A nil generator means summaries and insights
// always fall back.
func NewService(st store.Store, gen insight.Generator, opts ...ServiceOption) *Service {
	s := &Service{
		store:     st,
		generator: gen,
		publisher: events.Nop{},
		log:       observability.Discard(),
		now:       time.Now,
		newID:     func() activity.ID { return activity.ID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate reports whether r can be stored.
func Validate(r activity.Record) error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalid)
	}
	for _, c := range activity.Categories() {
		if r.Hours(c) < 0 {
			return fmt.Errorf("%w: %s hours must not be negative", ErrInvalid, c)
		}
	}
	return nil
}

// List returns records in creation order. limit <= 0 uses DefaultListLimit.
func (s *Service) List(ctx context.Context, skip, limit int) ([]activity.Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.store.List(ctx, skip, limit)
}

func (s *Service) Get(ctx context.Context, id activity.ID) (activity.Record, error) {
	return s.store.Get(ctx, id)
}

// Create assigns an ID, generates the summary and stores r. Client supplied
// id and summary are ignored.
func (s *Service) Create(ctx context.Context, r activity.Record) (activity.Record, error) {
	r = r.WithoutServerFields()
	if err := Validate(r); err != nil {
		return activity.Record{}, err
	}
	r.ID = s.newID()
	r.Summary = s.summary(ctx, r)

	if err := s.store.Insert(ctx, r); err != nil {
		return activity.Record{}, fmt.Errorf("store activity: %w", err)
	}
	now := s.now()
	observability.RecordActivityCreated(now)
	s.log.Info("activity created", "id", r.ID, "date", r.Date.String())

	if err := s.publisher.PublishActivityCreated(ctx, events.NewActivityCreated(r, now)); err != nil {
		observability.RecordPublishFailure()
		s.log.Warn("publish activity.created", "id", r.ID, "err", err)
	}
	return r, nil
}

// Update replaces the hours and date of id and regenerates its summary.
func (s *Service) Update(ctx context.Context, id activity.ID, r activity.Record) (activity.Record, error) {
	r = r.WithoutServerFields()
	if err := Validate(r); err != nil {
		return activity.Record{}, err
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return activity.Record{}, err
	}
	r.ID = id
	r.Summary = s.summary(ctx, r)
	if err := s.store.Update(ctx, r); err != nil {
		return activity.Record{}, err
	}
	return r, nil
}

// Delete removes id and returns the record as it was.
func (s *Service) Delete(ctx context.Context, id activity.ID) (activity.Record, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return activity.Record{}, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return activity.Record{}, err
	}
	return r, nil
}

// Insight generates narrative text for r. Generation failures yield
// insight.InsightFallback and no error.
func (s *Service) Insight(ctx context.Context, r activity.Record) (string, error) {
	if s.generator == nil {
		observability.RecordGeneration("insight", true)
		return insight.InsightFallback, nil
	}
	text, err := s.generator.Insight(ctx, r)
	if err != nil {
		s.log.Error("generate insight", "date", r.Date.String(), "err", err)
		observability.RecordGeneration("insight", true)
		return insight.InsightFallback, nil
	}
	observability.RecordGeneration("insight", false)
	return text, nil
}

func (s *Service) summary(ctx context.Context, r activity.Record) string {
	if s.generator == nil {
		observability.RecordGeneration("summary", true)
		return insight.SummaryFallback
	}
	text, err := s.generator.Summary(ctx, r)
	if err != nil {
		s.log.Error("generate summary", "date", r.Date.String(), "err", err)
		observability.RecordGeneration("summary", true)
		return insight.SummaryFallback
	}
	observability.RecordGeneration("summary", false)
	return text
}
