package service

import (
	"context"
	"testing"

	"github.com/Kabita-developer/Attendence-System/internal/cache"
	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlotService(store SlotStore) *SlotService {
	return &SlotService{Store: store, Cache: cache.New(), Logger: discardLogger()}
}

func TestSlotServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc := newSlotService(newFakeSlotStore())

	slot, err := svc.Create(ctx, SlotInput{
		Name: "Morning", StartMinutes: 420, EndMinutes: 720, Salary: 200, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), slot.ID)
	assert.Equal(t, "Morning", slot.Name)
}

func TestSlotServiceCreateRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	svc := newSlotService(newFakeSlotStore())

	_, err := svc.Create(ctx, SlotInput{Name: "Morning", StartMinutes: 420, EndMinutes: 720, Salary: 200, IsActive: true})
	require.NoError(t, err)

	_, err = svc.Create(ctx, SlotInput{Name: "Overlap", StartMinutes: 660, EndMinutes: 780, Salary: 100, IsActive: true})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Shared boundary is not an overlap.
	_, err = svc.Create(ctx, SlotInput{Name: "Afternoon", StartMinutes: 720, EndMinutes: 1020, Salary: 250, IsActive: true})
	assert.NoError(t, err)

	// Inactive slots are exempt from the overlap rule.
	_, err = svc.Create(ctx, SlotInput{Name: "Draft", StartMinutes: 600, EndMinutes: 700, Salary: 50, IsActive: false})
	assert.NoError(t, err)
}

func TestSlotServiceCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newSlotService(newFakeSlotStore())

	cases := []SlotInput{
		{Name: "", StartMinutes: 0, EndMinutes: 60, Salary: 10},
		{Name: "Bad", StartMinutes: -1, EndMinutes: 60, Salary: 10},
		{Name: "Bad", StartMinutes: 600, EndMinutes: 600, Salary: 10},
		{Name: "Bad", StartMinutes: 600, EndMinutes: 300, Salary: 10},
		{Name: "Bad", StartMinutes: 0, EndMinutes: 1441, Salary: 10},
		{Name: "Bad", StartMinutes: 0, EndMinutes: 60, Salary: -5},
	}
	for _, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.Truef(t, domain.IsValidation(err), "input %+v should be rejected, got %v", in, err)
	}
}

func TestSlotServiceUpdatePatch(t *testing.T) {
	ctx := context.Background()
	svc := newSlotService(newFakeSlotStore())

	created, err := svc.Create(ctx, SlotInput{Name: "Morning", StartMinutes: 420, EndMinutes: 720, Salary: 200, IsActive: true})
	require.NoError(t, err)

	newSalary := int64(300)
	updated, err := svc.Update(ctx, created.ID, SlotPatch{Salary: &newSalary})
	require.NoError(t, err)
	assert.Equal(t, int64(300), updated.Salary)
	assert.Equal(t, "Morning", updated.Name)
	assert.Equal(t, 420, updated.StartMinutes)
}

func TestSlotServiceUpdateOverlapExcludesSelf(t *testing.T) {
	ctx := context.Background()
	svc := newSlotService(newFakeSlotStore())

	created, err := svc.Create(ctx, SlotInput{Name: "Morning", StartMinutes: 420, EndMinutes: 720, Salary: 200, IsActive: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, SlotInput{Name: "Afternoon", StartMinutes: 720, EndMinutes: 1020, Salary: 250, IsActive: true})
	require.NoError(t, err)

	// Shrinking within its own window conflicts with nobody.
	end := 700
	_, err = svc.Update(ctx, created.ID, SlotPatch{EndMinutes: &end})
	assert.NoError(t, err)

	// Growing into the neighbour does.
	end = 800
	_, err = svc.Update(ctx, created.ID, SlotPatch{EndMinutes: &end})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSlotServiceUpdateMissing(t *testing.T) {
	svc := newSlotService(newFakeSlotStore())
	_, err := svc.Update(context.Background(), 99, SlotPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSlotServiceCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	store := newFakeSlotStore()
	svc := newSlotService(store)

	_, err := svc.Create(ctx, SlotInput{Name: "Morning", StartMinutes: 420, EndMinutes: 720, Salary: 200, IsActive: true})
	require.NoError(t, err)

	first, err := svc.ActiveSlots(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = svc.Create(ctx, SlotInput{Name: "Afternoon", StartMinutes: 720, EndMinutes: 1020, Salary: 250, IsActive: true})
	require.NoError(t, err)

	second, err := svc.ActiveSlots(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestSlotServiceNilCache(t *testing.T) {
	ctx := context.Background()
	svc := &SlotService{Store: newFakeSlotStore(), Cache: nil, Logger: discardLogger()}

	created, err := svc.Create(ctx, SlotInput{Name: "Morning", StartMinutes: 420, EndMinutes: 720, Salary: 200, IsActive: true})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}
