package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Mode selects how a new entry's reading date and time are determined.
type Mode string

// Entry modes. ModeNow derives both parts from the current instant in the
// reference timezone; ModeBackfill records a past date with no time of day.
const (
	ModeNow      Mode = "now"
	ModeBackfill Mode = "backfill"
)

// CreateInput is a fresh creation payload. Kg and lb are never accepted
// here: they are always derived from Value and Unit so the entered value
// stays the single source of truth.
type CreateInput struct {
	Value       float64
	Unit        Unit
	Mode        Mode
	ReadingDate string // required for backfill, ignored for now mode
	Note        *string
}

// NewEntry normalizes a creation payload into a canonical entry, deriving
// kg/lb and the reading date/time. The id is left empty for the store to
// assign. now is the current instant used for "now" mode and for the
// not-after-today check on backfills.
func NewEntry(in CreateInput, now time.Time) (WeightEntry, error) {
	if in.Value <= 0 {
		return WeightEntry{}, invalid("value", "must be greater than zero")
	}
	if in.Value >= 1000 {
		return WeightEntry{}, invalid("value", "must be under 1000")
	}
	pair, err := ToKgLb(in.Value, in.Unit)
	if err != nil {
		return WeightEntry{}, err
	}

	e := WeightEntry{
		Kg:           pair.Kg,
		Lb:           pair.Lb,
		EnteredUnit:  in.Unit,
		CreatedAtIso: FormatInstant(now),
		Note:         in.Note,
	}

	switch in.Mode {
	case ModeNow:
		date, clock := LocalParts(now)
		e.ReadingDate = date
		e.ReadingTime = &clock
	case ModeBackfill:
		if in.ReadingDate == "" {
			return WeightEntry{}, invalid("readingDate", "select a date for backfilled entries")
		}
		if err := AssertValidLocalDate(in.ReadingDate); err != nil {
			return WeightEntry{}, err
		}
		// Lexicographic comparison is correct for YYYY-MM-DD.
		if in.ReadingDate > LocalDateOf(now) {
			return WeightEntry{}, invalid("readingDate", "must not be in the future")
		}
		e.ReadingDate = in.ReadingDate
		e.ReadingTime = nil
	default:
		return WeightEntry{}, invalid("mode", `must be "now" or "backfill"`)
	}
	return e, nil
}

// UpdateInput is a partial update. Only reading date/time, the audit
// timestamp (explicit correction) and the note are mutable; weight and unit
// edits are rejected at the boundary. Set* flags distinguish an absent field
// from an explicit null.
type UpdateInput struct {
	ReadingDate    *string
	ReadingTime    *string
	SetReadingTime bool
	CreatedAtIso   *string
	Note           *string
	SetNote        bool
}

// Empty reports whether no updatable field is present.
func (in UpdateInput) Empty() bool {
	return in.ReadingDate == nil && !in.SetReadingTime && in.CreatedAtIso == nil && !in.SetNote
}

// ApplyUpdate validates each present field independently and returns the
// updated entry. Absent fields are left untouched.
func ApplyUpdate(e WeightEntry, in UpdateInput) (WeightEntry, error) {
	if in.ReadingDate != nil {
		if err := AssertValidLocalDate(*in.ReadingDate); err != nil {
			return WeightEntry{}, err
		}
		e.ReadingDate = *in.ReadingDate
	}
	if in.SetReadingTime {
		if in.ReadingTime != nil {
			if err := AssertValidLocalTime(*in.ReadingTime); err != nil {
				return WeightEntry{}, err
			}
			clock := *in.ReadingTime
			e.ReadingTime = &clock
		} else {
			e.ReadingTime = nil
		}
	}
	if in.CreatedAtIso != nil {
		if err := AssertValidInstant(*in.CreatedAtIso); err != nil {
			return WeightEntry{}, err
		}
		e.CreatedAtIso = *in.CreatedAtIso
	}
	if in.SetNote {
		e.Note = in.Note
	}
	return e, nil
}

// storedEntry covers both the canonical persisted shape and the legacy flat
// weight/unit/loggedAt shape older snapshots of the store wrote.
type storedEntry struct {
	ID           string   `json:"id"`
	Kg           *float64 `json:"kg"`
	Lb           *float64 `json:"lb"`
	EnteredUnit  string   `json:"enteredUnit"`
	ReadingDate  string   `json:"readingDate"`
	ReadingTime  *string  `json:"readingTime"`
	CreatedAtIso string   `json:"createdAtIso"`
	Note         *string  `json:"note"`

	Weight   *float64 `json:"weight"`
	Unit     string   `json:"unit"`
	LoggedAt string   `json:"loggedAt"`
}

// DecodeStored upgrades a persisted record to a canonical entry. Legacy
// records have their UTC loggedAt decomposed into reference-timezone parts
// and kg/lb re-derived from the legacy weight. Canonical records get kg/lb
// re-derived from the entered side so the pair can never drift out of sync.
// Returns false for records that are corrupt or unrecognisable; callers
// drop those rather than failing the whole load.
func DecodeStored(raw json.RawMessage) (WeightEntry, bool) {
	var s storedEntry
	if err := json.Unmarshal(raw, &s); err != nil {
		return WeightEntry{}, false
	}
	if s.ID == "" {
		return WeightEntry{}, false
	}
	if s.Weight != nil && s.LoggedAt != "" {
		return decodeLegacy(s)
	}

	unit := Unit(strings.ToLower(s.EnteredUnit))
	if !unit.Valid() || !IsValidLocalDate(s.ReadingDate) || !IsValidInstant(s.CreatedAtIso) {
		return WeightEntry{}, false
	}
	if s.ReadingTime != nil && !IsValidLocalTime(*s.ReadingTime) {
		return WeightEntry{}, false
	}

	var entered float64
	switch unit {
	case UnitKg:
		if s.Kg == nil {
			return WeightEntry{}, false
		}
		entered = *s.Kg
	case UnitLb:
		if s.Lb == nil {
			return WeightEntry{}, false
		}
		entered = *s.Lb
	}
	pair, err := ToKgLb(entered, unit)
	if err != nil {
		return WeightEntry{}, false
	}

	return WeightEntry{
		ID:           s.ID,
		Kg:           pair.Kg,
		Lb:           pair.Lb,
		EnteredUnit:  unit,
		ReadingDate:  s.ReadingDate,
		ReadingTime:  s.ReadingTime,
		CreatedAtIso: s.CreatedAtIso,
		Note:         s.Note,
	}, true
}

func decodeLegacy(s storedEntry) (WeightEntry, bool) {
	unit := Unit(strings.ToLower(s.Unit))
	if !unit.Valid() || !IsValidInstant(s.LoggedAt) {
		return WeightEntry{}, false
	}
	pair, err := ToKgLb(*s.Weight, unit)
	if err != nil {
		return WeightEntry{}, false
	}
	logged, err := ParseInstant(s.LoggedAt)
	if err != nil {
		return WeightEntry{}, false
	}
	date, clock := LocalParts(logged)
	return WeightEntry{
		ID:           s.ID,
		Kg:           pair.Kg,
		Lb:           pair.Lb,
		EnteredUnit:  unit,
		ReadingDate:  date,
		ReadingTime:  &clock,
		CreatedAtIso: FormatInstant(logged),
		Note:         s.Note,
	}, true
}
