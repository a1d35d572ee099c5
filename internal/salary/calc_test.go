package salary

import (
	"testing"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/stretchr/testify/assert"
)

var morning = domain.SlotSnapshot{SlotID: 1, Name: "Morning", StartMinutes: 600, EndMinutes: 720, Salary: 200}

func TestClassifyMark(t *testing.T) {
	tests := []struct {
		name       string
		nowMinutes int
		status     domain.AttendanceStatus
		salary     int64
		lateBy     int
		warning    string
	}{
		{"before end", 715, domain.StatusApproved, 200, 0, ""},
		{"exactly at end", 720, domain.StatusApproved, 200, 0, ""},
		{"within grace", 723, domain.StatusPending, 0, 3, "Late by 3 minute(s). Admin approval required."},
		{"grace boundary", 725, domain.StatusPending, 0, 5, "Late by 5 minute(s). Admin approval required."},
		{"past grace", 730, domain.StatusRejected, 0, 10, "Late by 10 minute(s). Attendance rejected."},
		{"far past grace", 726, domain.StatusRejected, 0, 6, "Late by 6 minute(s). Attendance rejected."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyMark(tc.nowMinutes, morning)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.salary, got.SlotSalary)
			assert.Equal(t, tc.lateBy, got.LateByMinutes)
			assert.Equal(t, tc.warning, got.WarningMessage)
		})
	}
}

func TestClassifyMarkDeterministic(t *testing.T) {
	first := ClassifyMark(723, morning)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, ClassifyMark(723, morning))
	}
}

func TestClassifyMarkSalaryOnlyWhenApproved(t *testing.T) {
	for now := 700; now <= 760; now++ {
		got := ClassifyMark(now, morning)
		if got.SlotSalary > 0 {
			assert.Equal(t, domain.StatusApproved, got.Status, "minute %d", now)
		}
	}
}

func TestPropose(t *testing.T) {
	slots := []domain.SlotSnapshot{
		{Name: "Evening", StartMinutes: 1140, EndMinutes: 1260, Salary: 300},
		{Name: "Morning", StartMinutes: 600, EndMinutes: 720, Salary: 200},
		{Name: "Afternoon", StartMinutes: 900, EndMinutes: 1020, Salary: 250},
	}

	t.Run("nothing elapsed", func(t *testing.T) {
		p := Propose(500, slots, GraceMinutes)
		assert.Zero(t, p.ProposedSlots)
		assert.Zero(t, p.ProposedSalary)
		assert.False(t, p.IsLate)
		assert.Empty(t, p.WarningMessage)
	})

	t.Run("sorts by end time", func(t *testing.T) {
		p := Propose(1025, slots, GraceMinutes)
		assert.Equal(t, 2, p.ProposedSlots)
		assert.Equal(t, int64(450), p.ProposedSalary)
		assert.False(t, p.IsLate)
	})

	t.Run("late against last included slot", func(t *testing.T) {
		p := Propose(1030, slots, GraceMinutes)
		assert.Equal(t, 2, p.ProposedSlots)
		assert.True(t, p.IsLate)
		assert.Equal(t, 5, p.LateByMinutes)
		assert.Equal(t, "Late by 5 minute(s). Your attendance is pending admin approval.", p.WarningMessage)
	})

	t.Run("grace absorbs small delay", func(t *testing.T) {
		p := Propose(725, slots, GraceMinutes)
		assert.Equal(t, 1, p.ProposedSlots)
		assert.False(t, p.IsLate)
		assert.Zero(t, p.LateByMinutes)
	})

	t.Run("input slice untouched", func(t *testing.T) {
		before := slots[0].Name
		Propose(1400, slots, GraceMinutes)
		assert.Equal(t, before, slots[0].Name)
	})
}

func TestProposeMonotonic(t *testing.T) {
	slots := []domain.SlotSnapshot{
		{EndMinutes: 720, Salary: 200},
		{EndMinutes: 1020, Salary: 250},
	}
	prevSlots, prevSalary := 0, int64(0)
	for now := 0; now <= 1440; now += 7 {
		p := Propose(now, slots, GraceMinutes)
		assert.GreaterOrEqual(t, p.ProposedSlots, prevSlots)
		assert.GreaterOrEqual(t, p.ProposedSalary, prevSalary)
		prevSlots, prevSalary = p.ProposedSlots, p.ProposedSalary
	}
}

func TestOverlaps(t *testing.T) {
	// Touching endpoints are not an overlap.
	assert.False(t, Overlaps(600, 720, 720, 800))
	assert.False(t, Overlaps(720, 800, 600, 720))
	assert.True(t, Overlaps(600, 720, 700, 800))
	assert.True(t, Overlaps(700, 800, 600, 720))
	assert.True(t, Overlaps(600, 720, 610, 620))
	assert.False(t, Overlaps(600, 720, 800, 900))
}
