// Package salary holds the pure attendance classification rules. Everything
// here is a function of its inputs; persistence and clocks live elsewhere.
package salary

import (
	"fmt"
	"sort"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
)

// GraceMinutes is the window after slot end during which a late mark becomes
// PENDING instead of REJECTED.
const GraceMinutes = 5

// Classification is the outcome of marking attendance against one slot.
type Classification struct {
	Status         domain.AttendanceStatus
	SlotSalary     int64
	LateByMinutes  int
	WarningMessage string
}

// ClassifyMark decides the disposition of a mark made at nowMinutes (minutes
// since local midnight) against slot.
//
//	now <= end            APPROVED, full salary
//	now <= end + grace    PENDING, salary 0, admin approval required
//	otherwise             REJECTED, salary 0, terminal
func ClassifyMark(nowMinutes int, slot domain.SlotSnapshot) Classification {
	switch {
	case nowMinutes <= slot.EndMinutes:
		return Classification{
			Status:     domain.StatusApproved,
			SlotSalary: slot.Salary,
		}
	case nowMinutes <= slot.EndMinutes+GraceMinutes:
		late := nowMinutes - slot.EndMinutes
		return Classification{
			Status:         domain.StatusPending,
			LateByMinutes:  late,
			WarningMessage: fmt.Sprintf("Late by %d minute(s). Admin approval required.", late),
		}
	default:
		late := nowMinutes - slot.EndMinutes
		return Classification{
			Status:         domain.StatusRejected,
			LateByMinutes:  late,
			WarningMessage: fmt.Sprintf("Late by %d minute(s). Attendance rejected.", late),
		}
	}
}

// Proposal projects how many slots a single timestamp would cover and what
// salary that would grant.
type Proposal struct {
	ProposedSlots  int
	ProposedSalary int64
	IsLate         bool
	LateByMinutes  int
	WarningMessage string
}

// Propose counts the candidate slots whose end time has already passed at
// nowMinutes and sums their salary. Lateness is measured against the last
// included slot's end plus the grace period.
func Propose(nowMinutes int, slots []domain.SlotSnapshot, graceMinutes int) Proposal {
	sorted := make([]domain.SlotSnapshot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EndMinutes < sorted[j].EndMinutes })

	var p Proposal
	for _, s := range sorted {
		if s.EndMinutes <= nowMinutes {
			p.ProposedSlots++
			p.ProposedSalary += s.Salary
		}
	}
	if p.ProposedSlots == 0 {
		return p
	}

	lastEnd := sorted[p.ProposedSlots-1].EndMinutes
	lateBy := nowMinutes - (lastEnd + graceMinutes)
	if lateBy > 0 {
		p.IsLate = true
		p.LateByMinutes = lateBy
		p.WarningMessage = fmt.Sprintf("Late by %d minute(s). Your attendance is pending admin approval.", lateBy)
	}
	return p
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
