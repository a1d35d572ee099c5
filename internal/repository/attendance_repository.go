package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/db"
	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type AttendanceRepository struct {
	DB *db.Postgres
}

const attendanceColumns = `id, user_id, attendance_date, slot_id, attendance_time, status, slot_salary,
	late_by_minutes, warning_message, snapshot_name, snapshot_start_minutes, snapshot_end_minutes,
	snapshot_salary, admin_note, reviewed_by, reviewed_at, created_at, updated_at`

// Insert stores a new mark and, when non-nil, its salary log in one
// transaction. A duplicate (user, date, slot) surfaces as ErrConflict via the
// unique index, never as a read-then-write check.
func (r AttendanceRepository) Insert(ctx context.Context, rec domain.Attendance, log *domain.SalaryLog) (*domain.Attendance, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO attendance (user_id, attendance_date, slot_id, attendance_time, status, slot_salary,
			late_by_minutes, warning_message, snapshot_name, snapshot_start_minutes, snapshot_end_minutes,
			snapshot_salary, admin_note, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, now(), now())
		RETURNING `+attendanceColumns+`
	`, rec.UserID, rec.AttendanceDate, rec.SlotID, rec.AttendanceTime, rec.Status, rec.SlotSalary,
		rec.LateByMinutes, rec.WarningMessage, rec.Snapshot.Name, rec.Snapshot.StartMinutes,
		rec.Snapshot.EndMinutes, rec.Snapshot.Salary, rec.AdminNote)
	saved, err := scanAttendance(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}

	if log != nil {
		log.AttendanceID = saved.ID
		if err := insertSalaryLogTx(ctx, tx, *log); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r AttendanceRepository) GetByID(ctx context.Context, id int64) (*domain.Attendance, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE id=$1`, id)
	rec, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ReviewUpdate is the mutation applied by approve/reject.
type ReviewUpdate struct {
	Status       domain.AttendanceStatus
	SlotSalary   int64
	ClearWarning bool
	ReviewedBy   int64
	ReviewedAt   time.Time
	AdminNote    *string
}

// FinalizeReview transitions a PENDING record and, when non-nil, appends the
// salary log atomically. The status guard is in the UPDATE itself so two
// concurrent approvals cannot both succeed.
func (r AttendanceRepository) FinalizeReview(ctx context.Context, id int64, upd ReviewUpdate, log *domain.SalaryLog) (*domain.Attendance, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE attendance
		SET status=$2,
			slot_salary=$3,
			warning_message=CASE WHEN $4 THEN '' ELSE warning_message END,
			reviewed_by=$5,
			reviewed_at=$6,
			admin_note=COALESCE($7, admin_note),
			updated_at=now()
		WHERE id=$1 AND status=$8
		RETURNING `+attendanceColumns+`
	`, id, upd.Status, upd.SlotSalary, upd.ClearWarning, upd.ReviewedBy, upd.ReviewedAt, upd.AdminNote, domain.StatusPending)
	saved, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing record from a non-PENDING one.
			var exists bool
			if chkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendance WHERE id=$1)`, id).Scan(&exists); chkErr != nil {
				return nil, chkErr
			}
			if exists {
				return nil, domain.ErrInvalidState
			}
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if log != nil {
		log.AttendanceID = saved.ID
		if err := insertSalaryLogTx(ctx, tx, *log); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// UpsertByKey creates or overwrites the record for (user, date, slot),
// replaces its salary logs, and writes the new log if any — one transaction.
func (r AttendanceRepository) UpsertByKey(ctx context.Context, rec domain.Attendance, log *domain.SalaryLog) (*domain.Attendance, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO attendance (user_id, attendance_date, slot_id, attendance_time, status, slot_salary,
			late_by_minutes, warning_message, snapshot_name, snapshot_start_minutes, snapshot_end_minutes,
			snapshot_salary, admin_note, reviewed_by, reviewed_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, 0, '', $7,$8,$9,$10,$11,$12,$13, now(), now())
		ON CONFLICT (user_id, attendance_date, slot_id) DO UPDATE SET
			attendance_time=EXCLUDED.attendance_time,
			status=EXCLUDED.status,
			slot_salary=EXCLUDED.slot_salary,
			snapshot_name=EXCLUDED.snapshot_name,
			snapshot_start_minutes=EXCLUDED.snapshot_start_minutes,
			snapshot_end_minutes=EXCLUDED.snapshot_end_minutes,
			snapshot_salary=EXCLUDED.snapshot_salary,
			admin_note=EXCLUDED.admin_note,
			reviewed_by=EXCLUDED.reviewed_by,
			reviewed_at=EXCLUDED.reviewed_at,
			updated_at=now()
		RETURNING `+attendanceColumns+`
	`, rec.UserID, rec.AttendanceDate, rec.SlotID, rec.AttendanceTime, rec.Status, rec.SlotSalary,
		rec.Snapshot.Name, rec.Snapshot.StartMinutes, rec.Snapshot.EndMinutes, rec.Snapshot.Salary,
		rec.AdminNote, rec.ReviewedBy, rec.ReviewedAt)
	saved, err := scanAttendance(row)
	if err != nil {
		return nil, err
	}

	// One logical log per record: wipe prior grants before the new one.
	if _, err := tx.Exec(ctx, `DELETE FROM salary_logs WHERE attendance_id=$1`, saved.ID); err != nil {
		return nil, err
	}
	if log != nil {
		log.AttendanceID = saved.ID
		if err := insertSalaryLogTx(ctx, tx, *log); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteMatching removes records for (user, date) — optionally narrowed to
// one slot — and returns how many went. deleteLogs distinguishes "clear"
// (logs go too) from "delete" (audit trail survives).
func (r AttendanceRepository) DeleteMatching(ctx context.Context, userID int64, date time.Time, slotID *int64, deleteLogs bool) (int64, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if deleteLogs {
		_, err = tx.Exec(ctx, `
			DELETE FROM salary_logs
			WHERE attendance_id IN (
				SELECT id FROM attendance
				WHERE user_id=$1 AND attendance_date=$2 AND ($3::bigint IS NULL OR slot_id=$3)
			)
		`, userID, date, slotID)
		if err != nil {
			return 0, err
		}
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM attendance
		WHERE user_id=$1 AND attendance_date=$2 AND ($3::bigint IS NULL OR slot_id=$3)
	`, userID, date, slotID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListRange returns records with attendance_date in [from, to), optionally
// for one user, ordered for date-grouped views.
func (r AttendanceRepository) ListRange(ctx context.Context, userID *int64, from, to time.Time) ([]domain.Attendance, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendance
		WHERE attendance_date >= $1 AND attendance_date < $2
		  AND ($3::bigint IS NULL OR user_id=$3)
		ORDER BY attendance_date ASC, snapshot_end_minutes ASC
	`, from, to, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

// ListByDate returns every record for one calendar day.
func (r AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]domain.Attendance, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendance
		WHERE attendance_date=$1
		ORDER BY user_id ASC, snapshot_end_minutes ASC
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

func collectAttendance(rows pgx.Rows) ([]domain.Attendance, error) {
	var items []domain.Attendance
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	return items, rows.Err()
}

func scanAttendance(row interface {
	Scan(dest ...any) error
}) (*domain.Attendance, error) {
	var (
		rec        domain.Attendance
		status     string
		reviewedBy pgtype.Int8
		reviewedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.AttendanceDate,
		&rec.SlotID,
		&rec.AttendanceTime,
		&status,
		&rec.SlotSalary,
		&rec.LateByMinutes,
		&rec.WarningMessage,
		&rec.Snapshot.Name,
		&rec.Snapshot.StartMinutes,
		&rec.Snapshot.EndMinutes,
		&rec.Snapshot.Salary,
		&rec.AdminNote,
		&reviewedBy,
		&reviewedAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.Status = domain.AttendanceStatus(status)
	rec.Snapshot.SlotID = rec.SlotID
	if reviewedBy.Valid {
		rec.ReviewedBy = &reviewedBy.Int64
	}
	if reviewedAt.Valid {
		rec.ReviewedAt = &reviewedAt.Time
	}
	return &rec, nil
}
