package repository

import (
	"context"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/db"
	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// SalaryLogRepository reads the audit trail. Writes happen inside the
// AttendanceRepository transactions so a grant and its log commit together.
type SalaryLogRepository struct {
	DB *db.Postgres
}

const salaryLogColumns = `id, user_id, attendance_id, attendance_date, slots, amount, action, created_by, created_at`

func (r SalaryLogRepository) ListByAttendance(ctx context.Context, attendanceID int64) ([]domain.SalaryLog, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+salaryLogColumns+`
		FROM salary_logs
		WHERE attendance_id=$1
		ORDER BY created_at ASC
	`, attendanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSalaryLogs(rows)
}

// ListByUserRange returns log entries for a user with attendance_date in
// [from, to).
func (r SalaryLogRepository) ListByUserRange(ctx context.Context, userID int64, from, to time.Time) ([]domain.SalaryLog, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+salaryLogColumns+`
		FROM salary_logs
		WHERE user_id=$1 AND attendance_date >= $2 AND attendance_date < $3
		ORDER BY attendance_date ASC, created_at ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSalaryLogs(rows)
}

func insertSalaryLogTx(ctx context.Context, tx pgx.Tx, log domain.SalaryLog) error {
	createdAt := log.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO salary_logs (user_id, attendance_id, attendance_date, slots, amount, action, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, log.UserID, log.AttendanceID, log.AttendanceDate, log.Slots, log.Amount, log.Action, log.CreatedBy, createdAt)
	return err
}

func collectSalaryLogs(rows pgx.Rows) ([]domain.SalaryLog, error) {
	var items []domain.SalaryLog
	for rows.Next() {
		var (
			l         domain.SalaryLog
			action    string
			createdBy pgtype.Int8
		)
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.AttendanceID,
			&l.AttendanceDate,
			&l.Slots,
			&l.Amount,
			&action,
			&createdBy,
			&l.CreatedAt,
		); err != nil {
			return nil, err
		}
		l.Action = domain.SalaryLogAction(action)
		if createdBy.Valid {
			l.CreatedBy = &createdBy.Int64
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
