package db

import (
	"context"
	"fmt"
)

// EnsureSchema creates tables and indexes on startup. The unique index on
// (user_id, attendance_date, slot_id) is load-bearing: concurrent marks for
// the same key race at the database, not in application code.
//
// attendance.slot_id deliberately has no foreign key to slots: slots are
// hard-deleted and historical records live on through their snapshot columns.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			employee_id TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			must_change_password BOOLEAN NOT NULL DEFAULT false,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS users_role_active_idx ON users (role, is_active)`,
		`CREATE TABLE IF NOT EXISTS counters (
			key TEXT PRIMARY KEY,
			seq BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS slots (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			start_minutes INT NOT NULL,
			end_minutes INT NOT NULL,
			salary BIGINT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			sort_order INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS slots_active_order_idx ON slots (is_active, sort_order, end_minutes)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			attendance_date DATE NOT NULL,
			slot_id BIGINT NOT NULL,
			attendance_time TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			slot_salary BIGINT NOT NULL DEFAULT 0,
			late_by_minutes INT NOT NULL DEFAULT 0,
			warning_message TEXT NOT NULL DEFAULT '',
			snapshot_name TEXT NOT NULL,
			snapshot_start_minutes INT NOT NULL,
			snapshot_end_minutes INT NOT NULL,
			snapshot_salary BIGINT NOT NULL,
			admin_note TEXT NOT NULL DEFAULT '',
			reviewed_by BIGINT,
			reviewed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS attendance_user_date_slot_key
			ON attendance (user_id, attendance_date, slot_id)`,
		`CREATE INDEX IF NOT EXISTS attendance_date_idx ON attendance (attendance_date)`,
		`CREATE INDEX IF NOT EXISTS attendance_user_date_idx ON attendance (user_id, attendance_date)`,
		`CREATE TABLE IF NOT EXISTS salary_logs (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			attendance_id BIGINT NOT NULL,
			attendance_date DATE NOT NULL,
			slots INT NOT NULL,
			amount BIGINT NOT NULL,
			action TEXT NOT NULL,
			created_by BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS salary_logs_attendance_idx ON salary_logs (attendance_id)`,
		`CREATE INDEX IF NOT EXISTS salary_logs_user_date_idx ON salary_logs (user_id, attendance_date)`,
	}

	for _, stmt := range stmts {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
