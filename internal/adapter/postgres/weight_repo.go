package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"weightlog/internal/domain"
)

var _ domain.Store = (*DB)(nil)

const entryColumns = "id, kg, lb, entered_unit, reading_date, reading_time, created_at, note"

// List returns all weight entries, unordered.
func (d *DB) List(ctx context.Context) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+entryColumns+" FROM weight_entries;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WeightEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create assigns an id and inserts the entry.
func (d *DB) Create(ctx context.Context, entry domain.WeightEntry) (domain.WeightEntry, error) {
	createdAt, err := domain.ParseInstant(entry.CreatedAtIso)
	if err != nil {
		return domain.WeightEntry{}, err
	}

	entry.ID = uuid.NewString()
	_, err = d.sql.ExecContext(ctx,
		"INSERT INTO weight_entries(id, kg, lb, entered_unit, reading_date, reading_time, created_at, note) VALUES($1, $2, $3, $4, $5, $6, $7, $8);",
		entry.ID, entry.Kg, entry.Lb, string(entry.EnteredUnit),
		entry.ReadingDate, entry.ReadingTime, createdAt, entry.Note,
	)
	if err != nil {
		return domain.WeightEntry{}, err
	}
	return entry, nil
}

// Update reads the entry, applies the validated partial update through the
// normalizer and persists the result.
func (d *DB) Update(ctx context.Context, id string, in domain.UpdateInput) (domain.WeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM weight_entries WHERE id = $1;", id)
	current, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WeightEntry{}, domain.ErrNotFound
		}
		return domain.WeightEntry{}, err
	}

	updated, err := domain.ApplyUpdate(current, in)
	if err != nil {
		return domain.WeightEntry{}, err
	}
	createdAt, err := domain.ParseInstant(updated.CreatedAtIso)
	if err != nil {
		return domain.WeightEntry{}, err
	}

	_, err = d.sql.ExecContext(ctx,
		"UPDATE weight_entries SET reading_date = $1, reading_time = $2, created_at = $3, note = $4 WHERE id = $5;",
		updated.ReadingDate, updated.ReadingTime, createdAt, updated.Note, id,
	)
	if err != nil {
		return domain.WeightEntry{}, err
	}
	return updated, nil
}

// Delete removes the entry with the given id.
func (d *DB) Delete(ctx context.Context, id string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM weight_entries WHERE id = $1;", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.WeightEntry, error) {
	var (
		e           domain.WeightEntry
		unit        string
		readingTime sql.NullString
		createdAt   sql.NullTime
		note        sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Kg, &e.Lb, &unit, &e.ReadingDate, &readingTime, &createdAt, &note); err != nil {
		return domain.WeightEntry{}, err
	}
	e.EnteredUnit = domain.Unit(unit)
	if readingTime.Valid {
		e.ReadingTime = &readingTime.String
	}
	if createdAt.Valid {
		e.CreatedAtIso = domain.FormatInstant(createdAt.Time)
	}
	if note.Valid {
		e.Note = &note.String
	}
	return e, nil
}
