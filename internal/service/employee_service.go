package service

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/Kabita-developer/Attendence-System/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// EmployeeStore is the persistence behind the employee directory.
type EmployeeStore interface {
	CreateEmployee(ctx context.Context, p repository.CreateEmployeeParams) (*domain.User, error)
	GetEmployee(ctx context.Context, employeeID string) (*domain.User, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]domain.User, error)
	Update(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, id int64) error
}

type EmployeeService struct {
	Store  EmployeeStore
	Logger *slog.Logger
}

type EmployeeInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Create registers a new employee with a freshly issued employee id. The
// initial password must be changed on first login.
func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (*domain.User, error) {
	if err := validateEmployee(in.Name, in.Email, in.Password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.Store.CreateEmployee(ctx, repository.CreateEmployeeParams{
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		PasswordHash:       string(hash),
		MustChangePassword: true,
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("employee created", "employeeId", user.EmployeeID)
	return user, nil
}

// EmployeePatch carries partial updates; nil fields keep the stored value. A
// non-nil Password resets the credential and forces a change on next login.
type EmployeePatch struct {
	Name     *string
	Email    *string
	Phone    *string
	IsActive *bool
	Password *string
}

func (s *EmployeeService) Update(ctx context.Context, employeeID string, patch EmployeePatch) (*domain.User, error) {
	user, err := s.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	next := *user
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Email != nil {
		next.Email = *patch.Email
	}
	if patch.Phone != nil {
		next.Phone = *patch.Phone
	}
	if patch.IsActive != nil {
		next.IsActive = *patch.IsActive
	}
	if patch.Password != nil {
		if len(*patch.Password) < 8 {
			return nil, domain.Validationf("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		next.PasswordHash = string(hash)
		next.MustChangePassword = true
	}
	if next.Name == "" {
		return nil, domain.Validationf("name is required")
	}
	if next.Email != "" {
		if _, err := mail.ParseAddress(next.Email); err != nil {
			return nil, domain.Validationf("invalid email address")
		}
	}

	if err := s.Store.Update(ctx, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *EmployeeService) Get(ctx context.Context, employeeID string) (*domain.User, error) {
	return s.Store.GetEmployee(ctx, employeeID)
}

func (s *EmployeeService) List(ctx context.Context, activeOnly bool) ([]domain.User, error) {
	return s.Store.ListEmployees(ctx, activeOnly)
}

// Delete removes the employee account. Attendance and salary logs keep their
// user id and survive as history.
func (s *EmployeeService) Delete(ctx context.Context, employeeID string) error {
	user, err := s.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.Logger.Info("employee deleted", "employeeId", employeeID)
	return nil
}

func validateEmployee(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Validationf("name is required")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.Validationf("invalid email address")
		}
	}
	if len(password) < 8 {
		return domain.Validationf("password must be at least 8 characters")
	}
	return nil
}
