package service

import (
	"context"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/clock"
	"github.com/Kabita-developer/Attendence-System/internal/domain"
)

// AttendanceLister is the read side of the ledger used by reports.
type AttendanceLister interface {
	ListRange(ctx context.Context, userID *int64, from, to time.Time) ([]domain.Attendance, error)
	ListByDate(ctx context.Context, date time.Time) ([]domain.Attendance, error)
}

// EmployeeLister enumerates and resolves employees for report rows.
type EmployeeLister interface {
	ListEmployees(ctx context.Context, activeOnly bool) ([]domain.User, error)
	GetEmployee(ctx context.Context, employeeID string) (*domain.User, error)
}

// ReportService aggregates the ledger into daily, monthly and per-employee
// views. A day with no records is ABSENT; it is derived here, never stored.
type ReportService struct {
	Attendance AttendanceLister
	Users      EmployeeLister
	Timezone   *time.Location
}

type DailyRow struct {
	EmployeeID  string                  `json:"employeeId"`
	Name        string                  `json:"name"`
	Status      domain.AttendanceStatus `json:"status"`
	SlotsCount  int                     `json:"slotsCount"`
	DailySalary int64                   `json:"dailySalary"`
}

// Daily reports every active employee for one calendar day.
func (s *ReportService) Daily(ctx context.Context, date time.Time) ([]DailyRow, error) {
	day := clock.StartOfDay(date)
	employees, err := s.Users.ListEmployees(ctx, true)
	if err != nil {
		return nil, err
	}
	records, err := s.Attendance.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64][]domain.Attendance)
	for _, rec := range records {
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}

	rows := make([]DailyRow, 0, len(employees))
	for _, emp := range employees {
		recs := byUser[emp.ID]
		row := DailyRow{
			EmployeeID: emp.EmployeeID,
			Name:       emp.Name,
			Status:     dayStatus(recs),
			SlotsCount: len(recs),
		}
		for _, rec := range recs {
			if rec.Status == domain.StatusApproved {
				row.DailySalary += rec.SlotSalary
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type MonthlyRow struct {
	EmployeeID    string `json:"employeeId"`
	Name          string `json:"name"`
	ApprovedSlots int    `json:"approvedSlots"`
	PendingSlots  int    `json:"pendingSlots"`
	RejectedSlots int    `json:"rejectedSlots"`
	TotalSalary   int64  `json:"totalSalary"`
}

// MonthlySalary totals each active employee's month. Only APPROVED records
// contribute salary.
func (s *ReportService) MonthlySalary(ctx context.Context, year int, month time.Month) ([]MonthlyRow, error) {
	from, to := clock.MonthRange(year, month, s.Timezone)
	employees, err := s.Users.ListEmployees(ctx, true)
	if err != nil {
		return nil, err
	}
	records, err := s.Attendance.ListRange(ctx, nil, from, to)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64]*MonthlyRow, len(employees))
	rows := make([]MonthlyRow, len(employees))
	for i, emp := range employees {
		rows[i] = MonthlyRow{EmployeeID: emp.EmployeeID, Name: emp.Name}
		byUser[emp.ID] = &rows[i]
	}
	for _, rec := range records {
		row, ok := byUser[rec.UserID]
		if !ok {
			continue
		}
		switch rec.Status {
		case domain.StatusApproved:
			row.ApprovedSlots++
			row.TotalSalary += rec.SlotSalary
		case domain.StatusPending:
			row.PendingSlots++
		case domain.StatusRejected:
			row.RejectedSlots++
		}
	}
	return rows, nil
}

// SlotEntry is one attendance record inside a date-grouped view.
type SlotEntry struct {
	ID             int64                   `json:"id"`
	SlotID         int64                   `json:"slotId"`
	SlotName       string                  `json:"slotName"`
	Time           time.Time               `json:"time"`
	Status         domain.AttendanceStatus `json:"status"`
	SlotSalary     int64                   `json:"slotSalary"`
	LateByMinutes  int                     `json:"lateByMinutes"`
	WarningMessage string                  `json:"warningMessage,omitempty"`
	AdminNote      string                  `json:"adminNote,omitempty"`
}

// DayGroup is one employee's records for one date.
type DayGroup struct {
	Date         string                  `json:"date"`
	EmployeeID   string                  `json:"employeeId,omitempty"`
	EmployeeName string                  `json:"employeeName,omitempty"`
	Status       domain.AttendanceStatus `json:"status"`
	Slots        []SlotEntry             `json:"slots"`
	DailySalary  int64                   `json:"dailySalary"`
}

// AdminMonth lists a month's records grouped by (date, employee), optionally
// narrowed to one employee id. Days without records are omitted here; the
// per-employee summary is the view that fills in ABSENT days.
func (s *ReportService) AdminMonth(ctx context.Context, year int, month time.Month, employeeID string) ([]DayGroup, error) {
	from, to := clock.MonthRange(year, month, s.Timezone)

	var userID *int64
	names := make(map[int64]domain.User)
	if employeeID != "" {
		user, err := s.Users.GetEmployee(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		userID = &user.ID
		names[user.ID] = *user
	} else {
		employees, err := s.Users.ListEmployees(ctx, false)
		if err != nil {
			return nil, err
		}
		for _, emp := range employees {
			names[emp.ID] = emp
		}
	}

	records, err := s.Attendance.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	groups := groupByDay(records, func(g *DayGroup, rec domain.Attendance) {
		if emp, ok := names[rec.UserID]; ok {
			g.EmployeeID = emp.EmployeeID
			g.EmployeeName = emp.Name
		}
	})
	return groups, nil
}

// EmployeeMonth is the self-service month view: the caller's own records
// grouped by date.
func (s *ReportService) EmployeeMonth(ctx context.Context, userID int64, year int, month time.Month) ([]DayGroup, error) {
	from, to := clock.MonthRange(year, month, s.Timezone)
	records, err := s.Attendance.ListRange(ctx, &userID, from, to)
	if err != nil {
		return nil, err
	}
	return groupByDay(records, nil), nil
}

// DaySummary is one calendar day in the per-employee summary, present even
// when no attendance exists.
type DaySummary struct {
	Date        string                  `json:"date"`
	Status      domain.AttendanceStatus `json:"status"`
	Slots       []SlotEntry             `json:"slots"`
	DailySalary int64                   `json:"dailySalary"`
}

type EmployeeSummary struct {
	EmployeeID  string       `json:"employeeId"`
	Name        string       `json:"name"`
	TotalSalary int64        `json:"totalSalary"`
	Days        []DaySummary `json:"days"`
}

// EmployeeSummary walks every calendar day of the month for one employee, so
// ABSENT days appear explicitly.
func (s *ReportService) EmployeeSummary(ctx context.Context, employeeID string, year int, month time.Month) (*EmployeeSummary, error) {
	user, err := s.Users.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	from, to := clock.MonthRange(year, month, s.Timezone)
	records, err := s.Attendance.ListRange(ctx, &user.ID, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]domain.Attendance)
	for _, rec := range records {
		key := rec.AttendanceDate.Format("2006-01-02")
		byDate[key] = append(byDate[key], rec)
	}

	summary := &EmployeeSummary{EmployeeID: user.EmployeeID, Name: user.Name}
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		recs := byDate[key]
		ds := DaySummary{
			Date:   key,
			Status: dayStatus(recs),
			Slots:  make([]SlotEntry, 0, len(recs)),
		}
		for _, rec := range recs {
			ds.Slots = append(ds.Slots, slotEntry(rec))
			if rec.Status == domain.StatusApproved {
				ds.DailySalary += rec.SlotSalary
			}
		}
		summary.TotalSalary += ds.DailySalary
		summary.Days = append(summary.Days, ds)
	}
	return summary, nil
}

// dayStatus collapses a day's records to a single status: ABSENT with no
// records, APPROVED when all approved, PENDING when any awaits review, else
// REJECTED.
func dayStatus(recs []domain.Attendance) domain.AttendanceStatus {
	statuses := make([]domain.AttendanceStatus, len(recs))
	for i, rec := range recs {
		statuses[i] = rec.Status
	}
	return collapseStatuses(statuses)
}

func collapseStatuses(statuses []domain.AttendanceStatus) domain.AttendanceStatus {
	if len(statuses) == 0 {
		return domain.StatusAbsent
	}
	allApproved := true
	for _, st := range statuses {
		if st == domain.StatusPending {
			return domain.StatusPending
		}
		if st != domain.StatusApproved {
			allApproved = false
		}
	}
	if allApproved {
		return domain.StatusApproved
	}
	return domain.StatusRejected
}

func slotEntry(rec domain.Attendance) SlotEntry {
	return SlotEntry{
		ID:             rec.ID,
		SlotID:         rec.SlotID,
		SlotName:       rec.Snapshot.Name,
		Time:           rec.AttendanceTime,
		Status:         rec.Status,
		SlotSalary:     rec.SlotSalary,
		LateByMinutes:  rec.LateByMinutes,
		WarningMessage: rec.WarningMessage,
		AdminNote:      rec.AdminNote,
	}
}

// groupByDay buckets records into (date, user) groups preserving input order,
// which the store already sorts by date then slot end.
func groupByDay(records []domain.Attendance, decorate func(*DayGroup, domain.Attendance)) []DayGroup {
	type key struct {
		date   string
		userID int64
	}
	index := make(map[key]int)
	groups := make([]DayGroup, 0)
	for _, rec := range records {
		k := key{rec.AttendanceDate.Format("2006-01-02"), rec.UserID}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			g := DayGroup{Date: k.date}
			if decorate != nil {
				decorate(&g, rec)
			}
			groups = append(groups, g)
		}
		groups[i].Slots = append(groups[i].Slots, slotEntry(rec))
		if rec.Status == domain.StatusApproved {
			groups[i].DailySalary += rec.SlotSalary
		}
	}
	for i := range groups {
		statuses := make([]domain.AttendanceStatus, len(groups[i].Slots))
		for j, e := range groups[i].Slots {
			statuses[j] = e.Status
		}
		groups[i].Status = collapseStatuses(statuses)
	}
	return groups
}
