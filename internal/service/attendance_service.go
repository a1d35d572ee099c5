package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/clock"
	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/Kabita-developer/Attendence-System/internal/repository"
	"github.com/Kabita-developer/Attendence-System/internal/salary"
)

// AttendanceStore is the persistence needed by the attendance ledger. Every
// method that writes a salary log does so in the same transaction as the
// attendance mutation.
type AttendanceStore interface {
	Insert(ctx context.Context, rec domain.Attendance, log *domain.SalaryLog) (*domain.Attendance, error)
	GetByID(ctx context.Context, id int64) (*domain.Attendance, error)
	FinalizeReview(ctx context.Context, id int64, upd repository.ReviewUpdate, log *domain.SalaryLog) (*domain.Attendance, error)
	UpsertByKey(ctx context.Context, rec domain.Attendance, log *domain.SalaryLog) (*domain.Attendance, error)
	DeleteMatching(ctx context.Context, userID int64, date time.Time, slotID *int64, deleteLogs bool) (int64, error)
}

// SlotReader is the slot lookup the ledger needs; SlotService satisfies it so
// the mark path goes through the cache.
type SlotReader interface {
	Get(ctx context.Context, id int64) (*domain.Slot, error)
}

// EmployeeReader resolves public employee ids for admin corrections.
type EmployeeReader interface {
	GetEmployee(ctx context.Context, employeeID string) (*domain.User, error)
}

type AttendanceService struct {
	Store  AttendanceStore
	Slots  SlotReader
	Users  EmployeeReader
	Clock  clock.Clock
	Logger *slog.Logger
}

// Mark records attendance for the caller against a slot, classified by the
// current business-timezone time. Duplicate marks for the same day and slot
// surface as ErrConflict from the store's unique index.
func (s *AttendanceService) Mark(ctx context.Context, userID, slotID int64) (*domain.Attendance, error) {
	slot, err := s.Slots.Get(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !slot.IsActive {
		return nil, fmt.Errorf("%w: slot is not active", domain.ErrNotFound)
	}

	now := s.Clock.Now()
	day := clock.StartOfDay(now)
	snapshot := domain.SlotSnapshot{
		SlotID:       slot.ID,
		Name:         slot.Name,
		StartMinutes: slot.StartMinutes,
		EndMinutes:   slot.EndMinutes,
		Salary:       slot.Salary,
	}
	cls := salary.ClassifyMark(clock.MinutesSinceMidnight(now), snapshot)

	rec := domain.Attendance{
		UserID:         userID,
		AttendanceDate: day,
		SlotID:         slot.ID,
		AttendanceTime: now,
		Status:         cls.Status,
		SlotSalary:     cls.SlotSalary,
		LateByMinutes:  cls.LateByMinutes,
		WarningMessage: cls.WarningMessage,
		Snapshot:       snapshot,
	}

	var log *domain.SalaryLog
	if cls.Status == domain.StatusApproved {
		log = &domain.SalaryLog{
			UserID:         userID,
			AttendanceDate: day,
			Slots:          1,
			Amount:         cls.SlotSalary,
			Action:         domain.ActionAutoApproved,
			CreatedAt:      now,
		}
	}

	saved, err := s.Store.Insert(ctx, rec, log)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("attendance marked",
		"userId", userID, "slotId", slotID, "status", saved.Status, "lateBy", saved.LateByMinutes)
	return saved, nil
}

// Preview computes what marking the remaining slots right now would yield,
// without writing anything.
func (s *AttendanceService) Preview(slots []domain.Slot) salary.Proposal {
	now := s.Clock.Now()
	snapshots := make([]domain.SlotSnapshot, 0, len(slots))
	for _, sl := range slots {
		snapshots = append(snapshots, domain.SlotSnapshot{
			SlotID:       sl.ID,
			Name:         sl.Name,
			StartMinutes: sl.StartMinutes,
			EndMinutes:   sl.EndMinutes,
			Salary:       sl.Salary,
		})
	}
	return salary.Propose(clock.MinutesSinceMidnight(now), snapshots, salary.GraceMinutes)
}

// Approve finalizes a PENDING record as APPROVED, granting the snapshot salary
// and clearing the warning. The PENDING guard lives in the store's UPDATE, so
// two concurrent reviews cannot both win.
func (s *AttendanceService) Approve(ctx context.Context, adminID, attendanceID int64, adminNote *string) (*domain.Attendance, error) {
	rec, err := s.Store.GetByID(ctx, attendanceID)
	if err != nil {
		return nil, err
	}
	if rec.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: attendance is %s, only PENDING can be reviewed", domain.ErrInvalidState, rec.Status)
	}

	now := s.Clock.Now()
	upd := repository.ReviewUpdate{
		Status:       domain.StatusApproved,
		SlotSalary:   rec.Snapshot.Salary,
		ClearWarning: true,
		ReviewedBy:   adminID,
		ReviewedAt:   now,
		AdminNote:    adminNote,
	}
	log := &domain.SalaryLog{
		UserID:         rec.UserID,
		AttendanceID:   rec.ID,
		AttendanceDate: rec.AttendanceDate,
		Slots:          1,
		Amount:         rec.Snapshot.Salary,
		Action:         domain.ActionAdminApproved,
		CreatedBy:      &adminID,
		CreatedAt:      now,
	}
	saved, err := s.Store.FinalizeReview(ctx, rec.ID, upd, log)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("attendance approved", "attendanceId", rec.ID, "adminId", adminID, "amount", rec.Snapshot.Salary)
	return saved, nil
}

// Reject finalizes a PENDING record as REJECTED. No salary is granted and no
// log is written; the warning stays on the record.
func (s *AttendanceService) Reject(ctx context.Context, adminID, attendanceID int64, adminNote *string) (*domain.Attendance, error) {
	rec, err := s.Store.GetByID(ctx, attendanceID)
	if err != nil {
		return nil, err
	}
	if rec.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: attendance is %s, only PENDING can be reviewed", domain.ErrInvalidState, rec.Status)
	}

	upd := repository.ReviewUpdate{
		Status:     domain.StatusRejected,
		SlotSalary: 0,
		ReviewedBy: adminID,
		ReviewedAt: s.Clock.Now(),
		AdminNote:  adminNote,
	}
	saved, err := s.Store.FinalizeReview(ctx, rec.ID, upd, nil)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("attendance rejected", "attendanceId", rec.ID, "adminId", adminID)
	return saved, nil
}

// UpsertInput is an admin correction for one (employee, date, slot) cell.
type UpsertInput struct {
	EmployeeID     string
	Date           time.Time
	SlotID         int64
	Status         domain.AttendanceStatus
	AttendanceTime *time.Time
	AdminNote      string
}

// Upsert creates or overwrites a record with an explicit status. APPROVED
// grants the current slot salary and writes an ADMIN_MODIFIED log; any prior
// logs for the record are replaced.
func (s *AttendanceService) Upsert(ctx context.Context, adminID int64, in UpsertInput) (*domain.Attendance, error) {
	switch in.Status {
	case domain.StatusApproved, domain.StatusPending, domain.StatusRejected:
	default:
		return nil, domain.Validationf("status must be APPROVED, PENDING or REJECTED")
	}

	user, err := s.Users.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	slot, err := s.Slots.Get(ctx, in.SlotID)
	if err != nil {
		return nil, err
	}

	day := clock.StartOfDay(in.Date)
	at := clock.Noon(day)
	if in.AttendanceTime != nil {
		at = *in.AttendanceTime
	}

	var slotSalary int64
	if in.Status == domain.StatusApproved {
		slotSalary = slot.Salary
	}

	now := s.Clock.Now()
	rec := domain.Attendance{
		UserID:         user.ID,
		AttendanceDate: day,
		SlotID:         slot.ID,
		AttendanceTime: at,
		Status:         in.Status,
		SlotSalary:     slotSalary,
		Snapshot: domain.SlotSnapshot{
			SlotID:       slot.ID,
			Name:         slot.Name,
			StartMinutes: slot.StartMinutes,
			EndMinutes:   slot.EndMinutes,
			Salary:       slot.Salary,
		},
		AdminNote:  in.AdminNote,
		ReviewedBy: &adminID,
		ReviewedAt: &now,
	}

	var log *domain.SalaryLog
	if in.Status == domain.StatusApproved {
		log = &domain.SalaryLog{
			UserID:         user.ID,
			AttendanceDate: day,
			Slots:          1,
			Amount:         slotSalary,
			Action:         domain.ActionAdminModified,
			CreatedBy:      &adminID,
			CreatedAt:      now,
		}
	}

	saved, err := s.Store.UpsertByKey(ctx, rec, log)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("attendance upserted",
		"employeeId", in.EmployeeID, "date", day.Format("2006-01-02"), "slotId", slot.ID, "status", in.Status)
	return saved, nil
}

// Clear removes records for an employee and day (optionally one slot) along
// with their salary logs, as if they never happened. Idempotent: clearing
// nothing is not an error.
func (s *AttendanceService) Clear(ctx context.Context, employeeID string, date time.Time, slotID *int64) (int64, error) {
	user, err := s.Users.GetEmployee(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	n, err := s.Store.DeleteMatching(ctx, user.ID, clock.StartOfDay(date), slotID, true)
	if err != nil {
		return 0, err
	}
	s.Logger.Info("attendance cleared", "employeeId", employeeID, "date", date.Format("2006-01-02"), "removed", n)
	return n, nil
}

// Delete removes records like Clear but preserves salary logs as the audit
// trail of what was once granted. Returns whether anything was removed.
func (s *AttendanceService) Delete(ctx context.Context, employeeID string, date time.Time, slotID *int64) (bool, error) {
	user, err := s.Users.GetEmployee(ctx, employeeID)
	if err != nil {
		return false, err
	}
	n, err := s.Store.DeleteMatching(ctx, user.ID, clock.StartOfDay(date), slotID, false)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
