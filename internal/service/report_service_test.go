package service

import (
	"context"
	"testing"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func march(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func record(userID int64, date time.Time, slotID int64, status domain.AttendanceStatus, salary int64) domain.Attendance {
	return domain.Attendance{
		UserID:         userID,
		AttendanceDate: date,
		SlotID:         slotID,
		AttendanceTime: date.Add(11 * time.Hour),
		Status:         status,
		SlotSalary:     salary,
		Snapshot:       domain.SlotSnapshot{SlotID: slotID, Name: "Slot", Salary: 200},
	}
}

func newReportFixture(t *testing.T) (*ReportService, *fakeAttendanceStore, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	store := newFakeAttendanceStore()
	svc := &ReportService{Attendance: store, Users: users, Timezone: time.UTC}
	return svc, store, users
}

func seedRecord(t *testing.T, store *fakeAttendanceStore, rec domain.Attendance) {
	t.Helper()
	_, err := store.Insert(context.Background(), rec, nil)
	require.NoError(t, err)
}

func TestDailyReport(t *testing.T) {
	svc, store, users := newReportFixture(t)
	asha, err := users.CreateEmployee(context.Background(), employeeParams("Asha"))
	require.NoError(t, err)
	binod, err := users.CreateEmployee(context.Background(), employeeParams("Binod"))
	require.NoError(t, err)

	seedRecord(t, store, record(asha.ID, march(10), 1, domain.StatusApproved, 200))
	seedRecord(t, store, record(asha.ID, march(10), 2, domain.StatusApproved, 250))
	// Binod has no records on the 10th.

	rows, err := svc.Daily(context.Background(), march(10))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[string]DailyRow{}
	for _, row := range rows {
		byID[row.EmployeeID] = row
	}

	assert.Equal(t, domain.StatusApproved, byID[asha.EmployeeID].Status)
	assert.Equal(t, 2, byID[asha.EmployeeID].SlotsCount)
	assert.Equal(t, int64(450), byID[asha.EmployeeID].DailySalary)

	assert.Equal(t, domain.StatusAbsent, byID[binod.EmployeeID].Status)
	assert.Equal(t, 0, byID[binod.EmployeeID].SlotsCount)
	assert.Equal(t, int64(0), byID[binod.EmployeeID].DailySalary)
}

func TestDailyReportPendingDominates(t *testing.T) {
	svc, store, users := newReportFixture(t)
	asha, err := users.CreateEmployee(context.Background(), employeeParams("Asha"))
	require.NoError(t, err)

	seedRecord(t, store, record(asha.ID, march(10), 1, domain.StatusApproved, 200))
	seedRecord(t, store, record(asha.ID, march(10), 2, domain.StatusPending, 0))

	rows, err := svc.Daily(context.Background(), march(10))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.StatusPending, rows[0].Status)
	// Approved slot still pays even when the day as a whole is pending.
	assert.Equal(t, int64(200), rows[0].DailySalary)
}

func TestMonthlySalary(t *testing.T) {
	svc, store, users := newReportFixture(t)
	asha, err := users.CreateEmployee(context.Background(), employeeParams("Asha"))
	require.NoError(t, err)
	binod, err := users.CreateEmployee(context.Background(), employeeParams("Binod"))
	require.NoError(t, err)

	seedRecord(t, store, record(asha.ID, march(2), 1, domain.StatusApproved, 200))
	seedRecord(t, store, record(asha.ID, march(3), 1, domain.StatusApproved, 200))
	seedRecord(t, store, record(asha.ID, march(4), 1, domain.StatusPending, 0))
	seedRecord(t, store, record(asha.ID, march(5), 1, domain.StatusRejected, 0))
	seedRecord(t, store, record(binod.ID, march(2), 1, domain.StatusApproved, 200))
	// Outside the month: ignored.
	seedRecord(t, store, record(asha.ID, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), 1, domain.StatusApproved, 200))

	rows, err := svc.MonthlySalary(context.Background(), 2026, time.March)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, asha.EmployeeID, rows[0].EmployeeID)
	assert.Equal(t, 2, rows[0].ApprovedSlots)
	assert.Equal(t, 1, rows[0].PendingSlots)
	assert.Equal(t, 1, rows[0].RejectedSlots)
	assert.Equal(t, int64(400), rows[0].TotalSalary)

	assert.Equal(t, binod.EmployeeID, rows[1].EmployeeID)
	assert.Equal(t, int64(200), rows[1].TotalSalary)
}

func TestEmployeeSummaryFillsAbsentDays(t *testing.T) {
	svc, store, users := newReportFixture(t)
	asha, err := users.CreateEmployee(context.Background(), employeeParams("Asha"))
	require.NoError(t, err)

	seedRecord(t, store, record(asha.ID, march(2), 1, domain.StatusApproved, 200))
	seedRecord(t, store, record(asha.ID, march(2), 2, domain.StatusApproved, 250))
	seedRecord(t, store, record(asha.ID, march(15), 1, domain.StatusPending, 0))

	summary, err := svc.EmployeeSummary(context.Background(), asha.EmployeeID, 2026, time.March)
	require.NoError(t, err)
	assert.Equal(t, asha.EmployeeID, summary.EmployeeID)
	require.Len(t, summary.Days, 31, "every calendar day appears")
	assert.Equal(t, int64(450), summary.TotalSalary)

	assert.Equal(t, "2026-03-01", summary.Days[0].Date)
	assert.Equal(t, domain.StatusAbsent, summary.Days[0].Status)

	day2 := summary.Days[1]
	assert.Equal(t, domain.StatusApproved, day2.Status)
	assert.Len(t, day2.Slots, 2)
	assert.Equal(t, int64(450), day2.DailySalary)

	assert.Equal(t, domain.StatusPending, summary.Days[14].Status)
}

func TestEmployeeSummaryUnknownEmployee(t *testing.T) {
	svc, _, _ := newReportFixture(t)
	_, err := svc.EmployeeSummary(context.Background(), "EMP000404", 2026, time.March)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeMonthGroupsByDate(t *testing.T) {
	svc, store, users := newReportFixture(t)
	asha, err := users.CreateEmployee(context.Background(), employeeParams("Asha"))
	require.NoError(t, err)
	other, err := users.CreateEmployee(context.Background(), employeeParams("Binod"))
	require.NoError(t, err)

	seedRecord(t, store, record(asha.ID, march(2), 1, domain.StatusApproved, 200))
	seedRecord(t, store, record(asha.ID, march(2), 2, domain.StatusApproved, 250))
	seedRecord(t, store, record(other.ID, march(2), 1, domain.StatusApproved, 200))

	groups, err := svc.EmployeeMonth(context.Background(), asha.ID, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "2026-03-02", groups[0].Date)
	assert.Len(t, groups[0].Slots, 2)
	assert.Equal(t, int64(450), groups[0].DailySalary)
	assert.Equal(t, domain.StatusApproved, groups[0].Status)
}

func TestAdminMonthDecoratesEmployee(t *testing.T) {
	svc, store, users := newReportFixture(t)
	asha, err := users.CreateEmployee(context.Background(), employeeParams("Asha"))
	require.NoError(t, err)

	seedRecord(t, store, record(asha.ID, march(2), 1, domain.StatusApproved, 200))

	groups, err := svc.AdminMonth(context.Background(), 2026, time.March, asha.EmployeeID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, asha.EmployeeID, groups[0].EmployeeID)
	assert.Equal(t, "Asha", groups[0].EmployeeName)
}
