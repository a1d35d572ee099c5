package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kabita-developer/Attendence-System/internal/db"
	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	DB *db.Postgres
}

const userColumns = `id, employee_id, role, name, email, phone, password_hash, must_change_password, is_active, created_at, updated_at`

type CreateEmployeeParams struct {
	Name               string
	Email              string
	Phone              string
	PasswordHash       string
	MustChangePassword bool
}

// CreateEmployee allocates the next sequential employee id (EMP000001, ...)
// from the counters table and inserts the user in one transaction.
func (r UserRepository) CreateEmployee(ctx context.Context, p CreateEmployeeParams) (*domain.User, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var seq int64
	err = tx.QueryRow(ctx, `
		INSERT INTO counters (key, seq) VALUES ('employee', 1)
		ON CONFLICT (key) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq
	`).Scan(&seq)
	if err != nil {
		return nil, fmt.Errorf("next employee id: %w", err)
	}
	employeeID := fmt.Sprintf("EMP%06d", seq)

	row := tx.QueryRow(ctx, `
		INSERT INTO users (employee_id, role, name, email, phone, password_hash, must_change_password, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, true, now(), now())
		RETURNING `+userColumns+`
	`, employeeID, domain.RoleEmployee, p.Name, p.Email, p.Phone, p.PasswordHash, p.MustChangePassword)
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

func (r UserRepository) CreateAdmin(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO users (employee_id, role, name, email, phone, password_hash, must_change_password, is_active, created_at, updated_at)
		VALUES ('ADMIN', $1, $2, $3, '', $4, false, true, now(), now())
		RETURNING `+userColumns+`
	`, domain.RoleAdmin, name, email, passwordHash)
	user, err := scanUser(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (r UserRepository) HasAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := r.DB.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE role=$1)`, domain.RoleAdmin).Scan(&exists)
	return exists, err
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	return scanUserNotFound(row)
}

func (r UserRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE employee_id=$1`, employeeID)
	return scanUserNotFound(row)
}

// GetEmployee looks up an active-or-inactive user with the EMPLOYEE role.
func (r UserRepository) GetEmployee(ctx context.Context, employeeID string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE employee_id=$1 AND role=$2
	`, employeeID, domain.RoleEmployee)
	return scanUserNotFound(row)
}

func (r UserRepository) ListEmployees(ctx context.Context, activeOnly bool) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role=$1 ORDER BY employee_id ASC`
	if activeOnly {
		query = `SELECT ` + userColumns + ` FROM users WHERE role=$1 AND is_active ORDER BY employee_id ASC`
	}
	rows, err := r.DB.Pool.Query(ctx, query, domain.RoleEmployee)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}

func (r UserRepository) Update(ctx context.Context, u domain.User) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE users
		SET name=$2, email=$3, phone=$4, password_hash=$5, must_change_password=$6, is_active=$7, updated_at=now()
		WHERE id=$1
	`, u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.MustChangePassword, u.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, mustChange bool) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE users SET password_hash=$2, must_change_password=$3, updated_at=now() WHERE id=$1
	`, id, passwordHash, mustChange)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM users WHERE id=$1 AND role=$2`, id, domain.RoleEmployee)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUserNotFound(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(
		&u.ID,
		&u.EmployeeID,
		&role,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.MustChangePassword,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}
