package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/config"
	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials hides whether the account or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserDirectory is the account persistence used by authentication.
type UserDirectory interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	CreateAdmin(ctx context.Context, name, email, passwordHash string) (*domain.User, error)
	HasAdmin(ctx context.Context) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string, mustChange bool) error
}

type AuthService struct {
	Config config.Config
	Users  UserDirectory
	Logger *slog.Logger
}

type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        domain.User
}

// Login authenticates by employee id and password. Inactive accounts fail the
// same way as bad credentials.
func (s *AuthService) Login(ctx context.Context, employeeID, password string) (*AuthResult, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issueToken(*user)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("login", "employeeId", user.EmployeeID, "role", user.Role)
	return &AuthResult{AccessToken: token, ExpiresAt: expiresAt, User: *user}, nil
}

type AdminSignupInput struct {
	Name     string
	Email    string
	Password string
	SetupKey string
}

// AdminSignup bootstraps the first admin account. It requires the configured
// setup key and refuses once any admin exists.
func (s *AuthService) AdminSignup(ctx context.Context, in AdminSignupInput) (*domain.User, error) {
	if s.Config.AdminSetupKey == "" || in.SetupKey != s.Config.AdminSetupKey {
		return nil, ErrInvalidCredentials
	}
	if in.Name == "" {
		return nil, domain.Validationf("name is required")
	}
	if len(in.Password) < 8 {
		return nil, domain.Validationf("password must be at least 8 characters")
	}
	exists, err := s.Users.HasAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: admin account already exists", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.CreateAdmin(ctx, in.Name, in.Email, string(hash))
	if err != nil {
		return nil, err
	}
	s.Logger.Info("admin account created", "employeeId", user.EmployeeID)
	return user, nil
}

// ChangePassword verifies the current password before setting the new one and
// clears the must-change flag.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if len(next) < 8 {
		return domain.Validationf("new password must be at least 8 characters")
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, string(hash), false)
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.Config.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if tt, _ := claims["token_type"].(string); tt != "access" {
		return nil, errors.New("invalid token type")
	}
	return claims, nil
}

func (s *AuthService) issueToken(user domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.Config.AccessTokenTTL)
	claims := jwt.MapClaims{
		"sub":        strconv.FormatInt(user.ID, 10),
		"employeeId": user.EmployeeID,
		"role":       string(user.Role),
		"token_type": "access",
		"iat":        now.Unix(),
		"exp":        expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
