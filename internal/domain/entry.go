// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
)

// Unit is a weight unit as entered by the user.
type Unit string

// Supported units.
const (
	UnitKg Unit = "kg"
	UnitLb Unit = "lb"
)

// Valid reports whether u is a supported unit.
func (u Unit) Valid() bool {
	return u == UnitKg || u == UnitLb
}

// WeightEntry is the canonical representation of a single weight measurement.
// Exactly one of Kg/Lb is the value the user typed (EnteredUnit); the other
// is always derived from it. ReadingTime is nil for backfilled entries.
// CreatedAtIso is set once at creation and only changes through an explicit
// audit correction.
type WeightEntry struct {
	ID           string  `json:"id"`
	Kg           float64 `json:"kg"`
	Lb           float64 `json:"lb"`
	EnteredUnit  Unit    `json:"enteredUnit"`
	ReadingDate  string  `json:"readingDate"`
	ReadingTime  *string `json:"readingTime"`
	CreatedAtIso string  `json:"createdAtIso"`
	Note         *string `json:"note"`
}

// Store is the port for weight entry persistence. List returns entries in no
// particular order; ordering is the caller's concern so backends do not
// duplicate sort logic. Create assigns the id. Update and Delete fail with
// ErrNotFound for unknown ids.
type Store interface {
	List(ctx context.Context) ([]WeightEntry, error)
	Create(ctx context.Context, entry WeightEntry) (WeightEntry, error)
	Update(ctx context.Context, id string, in UpdateInput) (WeightEntry, error)
	Delete(ctx context.Context, id string) error
}

// ErrNotFound indicates an operation on an unknown entry id.
var ErrNotFound = errors.New("weight entry not found")

// ErrBackendUnavailable indicates the storage backend is unreachable or
// misconfigured.
var ErrBackendUnavailable = errors.New("storage backend unavailable")

// ValidationError reports malformed or out-of-range input, identifying the
// offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
