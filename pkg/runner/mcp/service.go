// Package mcp exposes daylog activities to Model Context Protocol clients.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/gateway"
	"tableflip.dev/daylog/pkg/timeutil"
	"tableflip.dev/daylog/pkg/viewmodel"
)

// Backend is the activity API the MCP server drives. server.Service
// satisfies it.
type Backend interface {
	List(ctx context.Context, skip, limit int) ([]activity.Record, error)
	Get(ctx context.Context, id activity.ID) (activity.Record, error)
	Create(ctx context.Context, r activity.Record) (activity.Record, error)
	Update(ctx context.Context, id activity.ID, r activity.Record) (activity.Record, error)
	Delete(ctx context.Context, id activity.ID) (activity.Record, error)
	Insight(ctx context.Context, r activity.Record) (string, error)
}

// ErrNoActivities is returned when an operation needs at least one record.
var ErrNoActivities = errors.New("no activities recorded yet")

// Service coordinates the operations shared by MCP tools and resources.
type Service struct {
	Backend Backend
	Now     func() time.Time
}

// AddActivityOptions captures the parameters used to log a day.
type AddActivityOptions struct {
	Date     string  `json:"date"`
	Work     float64 `json:"work"`
	Leisure  float64 `json:"leisure"`
	Sleep    float64 `json:"sleep"`
	Exercise float64 `json:"exercise"`
}

// UpdateActivityOptions changes only the fields that are set.
type UpdateActivityOptions struct {
	Date     *string  `json:"date"`
	Work     *float64 `json:"work"`
	Leisure  *float64 `json:"leisure"`
	Sleep    *float64 `json:"sleep"`
	Exercise *float64 `json:"exercise"`
}

// InsightDTO pairs generated text with the record it describes.
type InsightDTO struct {
	ID      activity.ID   `json:"id"`
	Date    activity.Date `json:"date"`
	Insight string        `json:"insight"`
}

// TotalsDTO summarises a window of records.
type TotalsDTO struct {
	Window   string            `json:"window,omitempty"`
	Days     int               `json:"days"`
	Totals   map[string]string `json:"totals"`
	Averages map[string]string `json:"averages"`
}

func NewService(b Backend) *Service {
	return &Service{Backend: b, Now: time.Now}
}

func (s *Service) backend() (Backend, error) {
	if s.Backend == nil {
		return nil, errors.New("activity backend is not configured")
	}
	return s.Backend, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// ListActivities returns records in store order, optionally limited to a
// trailing window such as "1w".
func (s *Service) ListActivities(ctx context.Context, last string) ([]activity.Record, string, error) {
	b, err := s.backend()
	if err != nil {
		return nil, "", err
	}
	all, err := gateway.Collect(ctx, b.List)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(last) == "" {
		return all, "", nil
	}
	days, label, err := timeutil.ParseWindow(last)
	if err != nil {
		return nil, "", err
	}
	return timeutil.Within(all, timeutil.Since(s.now(), days)), label, nil
}

func (s *Service) Activity(ctx context.Context, id string) (activity.Record, error) {
	b, err := s.backend()
	if err != nil {
		return activity.Record{}, err
	}
	return b.Get(ctx, activity.ID(strings.TrimSpace(id)))
}

func (s *Service) AddActivity(ctx context.Context, opts AddActivityOptions) (activity.Record, error) {
	b, err := s.backend()
	if err != nil {
		return activity.Record{}, err
	}
	date, err := s.parseDate(opts.Date)
	if err != nil {
		return activity.Record{}, err
	}
	return b.Create(ctx, activity.Record{
		Date:     date,
		Work:     opts.Work,
		Leisure:  opts.Leisure,
		Sleep:    opts.Sleep,
		Exercise: opts.Exercise,
	})
}

func (s *Service) UpdateActivity(ctx context.Context, id string, opts UpdateActivityOptions) (activity.Record, error) {
	b, err := s.backend()
	if err != nil {
		return activity.Record{}, err
	}
	current, err := b.Get(ctx, activity.ID(id))
	if err != nil {
		return activity.Record{}, err
	}
	if opts.Date != nil {
		if current.Date, err = s.parseDate(*opts.Date); err != nil {
			return activity.Record{}, err
		}
	}
	for _, f := range []struct {
		src *float64
		dst *float64
	}{
		{opts.Work, &current.Work},
		{opts.Leisure, &current.Leisure},
		{opts.Sleep, &current.Sleep},
		{opts.Exercise, &current.Exercise},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return b.Update(ctx, current.ID, current)
}

func (s *Service) DeleteActivity(ctx context.Context, id string) (activity.Record, error) {
	b, err := s.backend()
	if err != nil {
		return activity.Record{}, err
	}
	return b.Delete(ctx, activity.ID(id))
}

// Insight asks about the record with id, or the latest record when id is
// empty.
func (s *Service) Insight(ctx context.Context, id string) (InsightDTO, error) {
	b, err := s.backend()
	if err != nil {
		return InsightDTO{}, err
	}
	var r activity.Record
	if strings.TrimSpace(id) != "" {
		if r, err = b.Get(ctx, activity.ID(id)); err != nil {
			return InsightDTO{}, err
		}
	} else {
		all, err := gateway.Collect(ctx, b.List)
		if err != nil {
			return InsightDTO{}, err
		}
		if len(all) == 0 {
			return InsightDTO{}, ErrNoActivities
		}
		r = all[len(all)-1]
	}
	text, err := b.Insight(ctx, r)
	if err != nil {
		return InsightDTO{}, err
	}
	return InsightDTO{ID: r.ID, Date: r.Date, Insight: text}, nil
}

// Totals sums and averages each category over the window.
func (s *Service) Totals(ctx context.Context, last string) (TotalsDTO, error) {
	records, label, err := s.ListActivities(ctx, last)
	if err != nil {
		return TotalsDTO{}, err
	}
	dto := TotalsDTO{
		Window:   label,
		Days:     len(records),
		Totals:   map[string]string{},
		Averages: map[string]string{},
	}
	for _, slice := range viewmodel.Totals(records) {
		name := strings.ToLower(string(slice.Category))
		dto.Totals[name] = activity.FormatHours(slice.Value)
		avg := 0.0
		if len(records) > 0 {
			avg = slice.Value / float64(len(records))
		}
		dto.Averages[name] = fmt.Sprintf("%.1f", avg)
	}
	return dto, nil
}

func (s *Service) parseDate(raw string) (activity.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "today" {
		return activity.DateOf(s.now()), nil
	}
	d, err := activity.ParseDate(raw)
	if err != nil {
		return activity.Date{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return d, nil
}
