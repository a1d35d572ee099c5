// Package seed bootstraps a fresh database with the default slot registry
// and, when configured, a first admin account. Every step is idempotent so
// running it on each start is safe.
package seed

import (
	"context"
	"log/slog"
	"os"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/Kabita-developer/Attendence-System/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var defaultSlots = []domain.Slot{
	{Name: "Morning", StartMinutes: 600, EndMinutes: 720, Salary: 200, SortOrder: 1, IsActive: true},
	{Name: "Afternoon", StartMinutes: 900, EndMinutes: 1020, Salary: 200, SortOrder: 2, IsActive: true},
	{Name: "Evening", StartMinutes: 1140, EndMinutes: 1260, Salary: 200, SortOrder: 3, IsActive: true},
}

// Run creates the default slots when the registry is empty and an admin
// account when none exists and SEED_ADMIN_PASSWORD is set.
func Run(ctx context.Context, logger *slog.Logger, slots repository.SlotRepository, users repository.UserRepository) error {
	existing, err := slots.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		for _, s := range defaultSlots {
			if _, err := slots.Create(ctx, s); err != nil {
				return err
			}
		}
		logger.Info("seeded default slots", "count", len(defaultSlots))
	}

	hasAdmin, err := users.HasAdmin(ctx)
	if err != nil {
		return err
	}
	if !hasAdmin {
		password := os.Getenv("SEED_ADMIN_PASSWORD")
		if password == "" {
			logger.Warn("no admin account and SEED_ADMIN_PASSWORD not set; use /auth/admin-signup")
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		name := os.Getenv("SEED_ADMIN_NAME")
		if name == "" {
			name = "Administrator"
		}
		if _, err := users.CreateAdmin(ctx, name, os.Getenv("SEED_ADMIN_EMAIL"), string(hash)); err != nil {
			return err
		}
		logger.Info("seeded admin account")
	}
	return nil
}
