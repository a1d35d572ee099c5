package repository

import (
	"context"
	"errors"

	"github.com/Kabita-developer/Attendence-System/internal/db"
	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/jackc/pgx/v5"
)

type SlotRepository struct {
	DB *db.Postgres
}

const slotColumns = `id, name, start_minutes, end_minutes, salary, is_active, sort_order, created_at, updated_at`

func (r SlotRepository) Create(ctx context.Context, s domain.Slot) (*domain.Slot, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO slots (name, start_minutes, end_minutes, salary, is_active, sort_order, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, now(), now())
		RETURNING `+slotColumns+`
	`, s.Name, s.StartMinutes, s.EndMinutes, s.Salary, s.IsActive, s.SortOrder)
	return scanSlot(row)
}

func (r SlotRepository) Get(ctx context.Context, id int64) (*domain.Slot, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE id=$1`, id)
	slot, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return slot, nil
}

func (r SlotRepository) Update(ctx context.Context, s domain.Slot) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE slots
		SET name=$2, start_minutes=$3, end_minutes=$4, salary=$5, is_active=$6, sort_order=$7, updated_at=now()
		WHERE id=$1
	`, s.ID, s.Name, s.StartMinutes, s.EndMinutes, s.Salary, s.IsActive, s.SortOrder)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the slot permanently. Attendance history is unaffected:
// records carry their own snapshot of the slot definition.
func (r SlotRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM slots WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns every slot in the admin ordering (active first).
func (r SlotRepository) List(ctx context.Context) ([]domain.Slot, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+slotColumns+`
		FROM slots
		ORDER BY is_active DESC, sort_order ASC, end_minutes ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

// ListActive returns active slots in the employee ordering.
func (r SlotRepository) ListActive(ctx context.Context) ([]domain.Slot, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+slotColumns+`
		FROM slots
		WHERE is_active
		ORDER BY sort_order ASC, end_minutes ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

func collectSlots(rows pgx.Rows) ([]domain.Slot, error) {
	var items []domain.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func scanSlot(row interface {
	Scan(dest ...any) error
}) (*domain.Slot, error) {
	var s domain.Slot
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.StartMinutes,
		&s.EndMinutes,
		&s.Salary,
		&s.IsActive,
		&s.SortOrder,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
