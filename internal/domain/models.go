package domain

import "time"

// Enumerations
const (
	RoleAdmin    UserRole = "ADMIN"
	RoleEmployee UserRole = "EMPLOYEE"

	StatusApproved AttendanceStatus = "APPROVED"
	StatusPending  AttendanceStatus = "PENDING"
	StatusRejected AttendanceStatus = "REJECTED"
	// StatusAbsent is derived by reporting when a day has no records.
	// It is never stored on an attendance row.
	StatusAbsent AttendanceStatus = "ABSENT"

	ActionAutoApproved  SalaryLogAction = "AUTO_APPROVED"
	ActionAdminApproved SalaryLogAction = "ADMIN_APPROVED"
	ActionAdminModified SalaryLogAction = "ADMIN_MODIFIED"
)

type UserRole string
type AttendanceStatus string
type SalaryLogAction string

type User struct {
	ID                 int64
	EmployeeID         string
	Role               UserRole
	Name               string
	Email              string
	Phone              string
	PasswordHash       string
	MustChangePassword bool
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Slot is a named recurring daily time window with a flat salary.
// Minutes are counted from local midnight in the business timezone.
type Slot struct {
	ID           int64
	Name         string
	StartMinutes int
	EndMinutes   int
	Salary       int64
	IsActive     bool
	SortOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SlotSnapshot is the slot definition frozen at the moment an attendance
// record was created. Slot edits and deletes never touch it, so historical
// reports stay accurate.
type SlotSnapshot struct {
	SlotID       int64
	Name         string
	StartMinutes int
	EndMinutes   int
	Salary       int64
}

// Attendance is one mark per (user, date, slot). AttendanceDate is the
// calendar day (start of day, business timezone); AttendanceTime is the
// exact timestamp of the mark.
type Attendance struct {
	ID             int64
	UserID         int64
	AttendanceDate time.Time
	SlotID         int64
	AttendanceTime time.Time
	Status         AttendanceStatus
	SlotSalary     int64
	LateByMinutes  int
	WarningMessage string
	Snapshot       SlotSnapshot
	AdminNote      string
	ReviewedBy     *int64
	ReviewedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SalaryLog is an immutable audit row for a salary-granting action. Logs
// reference attendance rows but outlive them when the row is deleted (as
// opposed to cleared).
type SalaryLog struct {
	ID             int64
	UserID         int64
	AttendanceID   int64
	AttendanceDate time.Time
	Slots          int
	Amount         int64
	Action         SalaryLogAction
	CreatedBy      *int64
	CreatedAt      time.Time
}
