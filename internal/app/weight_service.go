// Package app holds the application services and business logic.
package app

import (
	"context"
	"time"

	"weightlog/internal/domain"
)

// WeightService encapsulates weight-journal use cases over a storage
// backend.
type WeightService struct {
	store domain.Store
	now   func() time.Time
}

// NewWeightService creates a WeightService backed by the given store.
func NewWeightService(store domain.Store) *WeightService {
	return &WeightService{store: store, now: time.Now}
}

// List returns all entries in the requested order.
func (s *WeightService) List(ctx context.Context, order domain.Order) ([]domain.WeightEntry, error) {
	if order == "" {
		order = domain.OrderChronological
	}
	if !order.Valid() {
		return nil, &domain.ValidationError{Field: "order", Message: `must be "chronological" or "newest"`}
	}
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if order == domain.OrderNewest {
		domain.SortNewest(entries)
	} else {
		domain.SortEntries(entries)
	}
	return entries, nil
}

// Create normalizes and persists a new entry, returning the canonical
// record with its assigned id.
func (s *WeightService) Create(ctx context.Context, in domain.CreateInput) (domain.WeightEntry, error) {
	entry, err := domain.NewEntry(in, s.now())
	if err != nil {
		return domain.WeightEntry{}, err
	}
	return s.store.Create(ctx, entry)
}

// Update applies a validated partial update to an existing entry.
func (s *WeightService) Update(ctx context.Context, id string, in domain.UpdateInput) (domain.WeightEntry, error) {
	if in.Empty() {
		return domain.WeightEntry{}, &domain.ValidationError{Field: "update", Message: "no updatable fields present"}
	}
	return s.store.Update(ctx, id, in)
}

// Delete removes an entry by id. Deleting an unknown id fails with
// ErrNotFound.
func (s *WeightService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// SeriesPoint is a single per-day chart data point. Value is nil for days
// without a reading.
type SeriesPoint struct {
	Day   string      `json:"day"`
	Value *float64    `json:"value"`
	Unit  domain.Unit `json:"unit"`
}

// Series returns per-day chart data for the last days days in the requested
// unit, taking the latest reading of each day.
func (s *WeightService) Series(ctx context.Context, days int, unit domain.Unit) ([]SeriesPoint, error) {
	if !unit.Valid() {
		return nil, &domain.ValidationError{Field: "unit", Message: `must be "kg" or "lb"`}
	}
	if days < 1 {
		days = 1
	}
	if days > 366 {
		days = 366
	}

	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortEntries(entries)

	// After the chronological sort the last entry seen per date is the
	// latest reading for that date.
	latest := make(map[string]domain.WeightEntry, len(entries))
	for _, e := range entries {
		latest[e.ReadingDate] = e
	}

	today := s.now()
	points := make([]SeriesPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := domain.LocalDateOf(today.AddDate(0, 0, -i))
		p := SeriesPoint{Day: day, Unit: unit}
		if e, ok := latest[day]; ok {
			v := e.Kg
			if unit == domain.UnitLb {
				v = e.Lb
			}
			p.Value = &v
		}
		points = append(points, p)
	}
	return points, nil
}
