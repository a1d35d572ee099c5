package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/cache"
	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/Kabita-developer/Attendence-System/internal/salary"
)

// SlotStore is the persistence needed by the slot registry.
type SlotStore interface {
	Create(ctx context.Context, s domain.Slot) (*domain.Slot, error)
	Get(ctx context.Context, id int64) (*domain.Slot, error)
	Update(ctx context.Context, s domain.Slot) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Slot, error)
	ListActive(ctx context.Context) ([]domain.Slot, error)
}

const slotCacheTTL = 5 * time.Minute

// SlotService owns slot lifecycle and the no-overlap invariant among active
// slots. Cache may be nil; it is only a read optimization and every mutation
// invalidates it.
type SlotService struct {
	Store  SlotStore
	Cache  *cache.TTL
	Logger *slog.Logger
}

type SlotInput struct {
	Name         string
	StartMinutes int
	EndMinutes   int
	Salary       int64
	SortOrder    int
	IsActive     bool
}

// SlotPatch carries partial updates; nil fields keep the stored value.
type SlotPatch struct {
	Name         *string
	StartMinutes *int
	EndMinutes   *int
	Salary       *int64
	SortOrder    *int
	IsActive     *bool
}

func (s *SlotService) Create(ctx context.Context, in SlotInput) (*domain.Slot, error) {
	if err := validateSlotWindow(in.Name, in.StartMinutes, in.EndMinutes, in.Salary); err != nil {
		return nil, err
	}
	if in.IsActive {
		if err := s.checkOverlap(ctx, in.StartMinutes, in.EndMinutes, 0); err != nil {
			return nil, err
		}
	}

	created, err := s.Store.Create(ctx, domain.Slot{
		Name:         in.Name,
		StartMinutes: in.StartMinutes,
		EndMinutes:   in.EndMinutes,
		Salary:       in.Salary,
		SortOrder:    in.SortOrder,
		IsActive:     in.IsActive,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(created.ID)
	return created, nil
}

func (s *SlotService) Update(ctx context.Context, id int64, patch SlotPatch) (*domain.Slot, error) {
	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *existing
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.StartMinutes != nil {
		next.StartMinutes = *patch.StartMinutes
	}
	if patch.EndMinutes != nil {
		next.EndMinutes = *patch.EndMinutes
	}
	if patch.Salary != nil {
		next.Salary = *patch.Salary
	}
	if patch.SortOrder != nil {
		next.SortOrder = *patch.SortOrder
	}
	if patch.IsActive != nil {
		next.IsActive = *patch.IsActive
	}

	if err := validateSlotWindow(next.Name, next.StartMinutes, next.EndMinutes, next.Salary); err != nil {
		return nil, err
	}
	if next.IsActive {
		if err := s.checkOverlap(ctx, next.StartMinutes, next.EndMinutes, id); err != nil {
			return nil, err
		}
	}

	if err := s.Store.Update(ctx, next); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return &next, nil
}

func (s *SlotService) Delete(ctx context.Context, id int64) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

// List returns all slots in the admin ordering.
func (s *SlotService) List(ctx context.Context) ([]domain.Slot, error) {
	return s.Store.List(ctx)
}

// ActiveSlots returns active slots in the employee ordering, cached briefly.
func (s *SlotService) ActiveSlots(ctx context.Context) ([]domain.Slot, error) {
	if v, ok := s.Cache.Get(cache.KeyActiveSlots); ok {
		if slots, ok := v.([]domain.Slot); ok {
			return slots, nil
		}
	}
	slots, err := s.Store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(cache.KeyActiveSlots, slots, slotCacheTTL)
	return slots, nil
}

// Get fetches a slot by id with a short per-slot cache in front.
func (s *SlotService) Get(ctx context.Context, id int64) (*domain.Slot, error) {
	if v, ok := s.Cache.Get(cache.SlotKey(id)); ok {
		if slot, ok := v.(*domain.Slot); ok {
			return slot, nil
		}
	}
	slot, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(cache.SlotKey(id), slot, slotCacheTTL)
	return slot, nil
}

func (s *SlotService) checkOverlap(ctx context.Context, startMinutes, endMinutes int, excludeID int64) error {
	active, err := s.Store.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, other := range active {
		if other.ID == excludeID {
			continue
		}
		if salary.Overlaps(startMinutes, endMinutes, other.StartMinutes, other.EndMinutes) {
			return fmt.Errorf("%w: slot overlaps an existing active slot", domain.ErrConflict)
		}
	}
	return nil
}

func (s *SlotService) invalidate(id int64) {
	s.Cache.Delete(cache.KeyActiveSlots, cache.SlotKey(id))
}

func validateSlotWindow(name string, startMinutes, endMinutes int, salaryAmount int64) error {
	if name == "" {
		return domain.Validationf("name is required")
	}
	if startMinutes < 0 || startMinutes > 1439 {
		return domain.Validationf("startMinutes must be between 0 and 1439")
	}
	if endMinutes < 1 || endMinutes > 1440 {
		return domain.Validationf("endMinutes must be between 1 and 1440")
	}
	if endMinutes <= startMinutes {
		return domain.Validationf("end time must be after start time")
	}
	if salaryAmount < 0 {
		return domain.Validationf("salary must not be negative")
	}
	return nil
}
