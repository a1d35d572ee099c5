package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/Kabita-developer/Attendence-System/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSlotStore struct {
	slots  map[int64]domain.Slot
	nextID int64
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: make(map[int64]domain.Slot)}
}

func (f *fakeSlotStore) Create(_ context.Context, s domain.Slot) (*domain.Slot, error) {
	f.nextID++
	s.ID = f.nextID
	f.slots[s.ID] = s
	out := s
	return &out, nil
}

func (f *fakeSlotStore) Get(_ context.Context, id int64) (*domain.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := s
	return &out, nil
}

func (f *fakeSlotStore) Update(_ context.Context, s domain.Slot) error {
	if _, ok := f.slots[s.ID]; !ok {
		return domain.ErrNotFound
	}
	f.slots[s.ID] = s
	return nil
}

func (f *fakeSlotStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.slots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.slots, id)
	return nil
}

func (f *fakeSlotStore) List(_ context.Context) ([]domain.Slot, error) {
	var out []domain.Slot
	for _, s := range f.slots {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSlotStore) ListActive(_ context.Context) ([]domain.Slot, error) {
	var out []domain.Slot
	for _, s := range f.slots {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type attendanceKey struct {
	userID int64
	date   string
	slotID int64
}

type fakeAttendanceStore struct {
	records map[int64]domain.Attendance
	byKey   map[attendanceKey]int64
	logs    []domain.SalaryLog
	nextID  int64
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{
		records: make(map[int64]domain.Attendance),
		byKey:   make(map[attendanceKey]int64),
	}
}

func keyOf(rec domain.Attendance) attendanceKey {
	return attendanceKey{rec.UserID, rec.AttendanceDate.Format("2006-01-02"), rec.SlotID}
}

func (f *fakeAttendanceStore) Insert(_ context.Context, rec domain.Attendance, log *domain.SalaryLog) (*domain.Attendance, error) {
	k := keyOf(rec)
	if _, ok := f.byKey[k]; ok {
		return nil, domain.ErrConflict
	}
	f.nextID++
	rec.ID = f.nextID
	f.records[rec.ID] = rec
	f.byKey[k] = rec.ID
	if log != nil {
		l := *log
		l.AttendanceID = rec.ID
		f.logs = append(f.logs, l)
	}
	out := rec
	return &out, nil
}

func (f *fakeAttendanceStore) GetByID(_ context.Context, id int64) (*domain.Attendance, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := rec
	return &out, nil
}

func (f *fakeAttendanceStore) FinalizeReview(_ context.Context, id int64, upd repository.ReviewUpdate, log *domain.SalaryLog) (*domain.Attendance, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if rec.Status != domain.StatusPending {
		return nil, domain.ErrInvalidState
	}
	rec.Status = upd.Status
	rec.SlotSalary = upd.SlotSalary
	if upd.ClearWarning {
		rec.WarningMessage = ""
	}
	rec.ReviewedBy = &upd.ReviewedBy
	at := upd.ReviewedAt
	rec.ReviewedAt = &at
	if upd.AdminNote != nil {
		rec.AdminNote = *upd.AdminNote
	}
	f.records[id] = rec
	if log != nil {
		l := *log
		l.AttendanceID = id
		f.logs = append(f.logs, l)
	}
	out := rec
	return &out, nil
}

func (f *fakeAttendanceStore) UpsertByKey(_ context.Context, rec domain.Attendance, log *domain.SalaryLog) (*domain.Attendance, error) {
	k := keyOf(rec)
	id, ok := f.byKey[k]
	if !ok {
		f.nextID++
		id = f.nextID
		f.byKey[k] = id
	}
	rec.ID = id
	f.records[id] = rec

	kept := f.logs[:0]
	for _, l := range f.logs {
		if l.AttendanceID != id {
			kept = append(kept, l)
		}
	}
	f.logs = kept
	if log != nil {
		l := *log
		l.AttendanceID = id
		f.logs = append(f.logs, l)
	}
	out := rec
	return &out, nil
}

func (f *fakeAttendanceStore) DeleteMatching(_ context.Context, userID int64, date time.Time, slotID *int64, deleteLogs bool) (int64, error) {
	day := date.Format("2006-01-02")
	var removed int64
	for id, rec := range f.records {
		if rec.UserID != userID || rec.AttendanceDate.Format("2006-01-02") != day {
			continue
		}
		if slotID != nil && rec.SlotID != *slotID {
			continue
		}
		delete(f.records, id)
		delete(f.byKey, keyOf(rec))
		removed++
		if deleteLogs {
			kept := f.logs[:0]
			for _, l := range f.logs {
				if l.AttendanceID != id {
					kept = append(kept, l)
				}
			}
			f.logs = kept
		}
	}
	return removed, nil
}

func (f *fakeAttendanceStore) ListRange(_ context.Context, userID *int64, from, to time.Time) ([]domain.Attendance, error) {
	var out []domain.Attendance
	for _, rec := range f.records {
		if userID != nil && rec.UserID != *userID {
			continue
		}
		if rec.AttendanceDate.Before(from) || !rec.AttendanceDate.Before(to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeAttendanceStore) ListByDate(_ context.Context, date time.Time) ([]domain.Attendance, error) {
	day := date.Format("2006-01-02")
	var out []domain.Attendance
	for _, rec := range f.records {
		if rec.AttendanceDate.Format("2006-01-02") == day {
			out = append(out, rec)
		}
	}
	return out, nil
}

func employeeParams(name string) repository.CreateEmployeeParams {
	return repository.CreateEmployeeParams{
		Name:               name,
		PasswordHash:       "$2a$10$fakefakefakefakefakefak",
		MustChangePassword: true,
	}
}

type fakeUserStore struct {
	users  map[int64]domain.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]domain.User)}
}

func (f *fakeUserStore) add(u domain.User) domain.User {
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return u
}

func (f *fakeUserStore) CreateEmployee(_ context.Context, p repository.CreateEmployeeParams) (*domain.User, error) {
	u := f.add(domain.User{
		EmployeeID:         fmt.Sprintf("EMP%06d", f.nextID+1),
		Role:               domain.RoleEmployee,
		Name:               p.Name,
		Email:              p.Email,
		Phone:              p.Phone,
		PasswordHash:       p.PasswordHash,
		MustChangePassword: p.MustChangePassword,
		IsActive:           true,
	})
	return &u, nil
}

func (f *fakeUserStore) CreateAdmin(_ context.Context, name, email, passwordHash string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Role == domain.RoleAdmin {
			return nil, domain.ErrConflict
		}
	}
	u := f.add(domain.User{
		EmployeeID:   "ADMIN",
		Role:         domain.RoleAdmin,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	})
	return &u, nil
}

func (f *fakeUserStore) HasAdmin(_ context.Context) (bool, error) {
	for _, u := range f.users {
		if u.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := u
	return &out, nil
}

func (f *fakeUserStore) GetByEmployeeID(_ context.Context, employeeID string) (*domain.User, error) {
	for _, u := range f.users {
		if u.EmployeeID == employeeID {
			out := u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) GetEmployee(_ context.Context, employeeID string) (*domain.User, error) {
	for _, u := range f.users {
		if u.EmployeeID == employeeID && u.Role == domain.RoleEmployee {
			out := u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) ListEmployees(_ context.Context, activeOnly bool) ([]domain.User, error) {
	var out []domain.User
	for id := int64(1); id <= f.nextID; id++ {
		u, ok := f.users[id]
		if !ok || u.Role != domain.RoleEmployee {
			continue
		}
		if activeOnly && !u.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, u domain.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id int64, passwordHash string, mustChange bool) error {
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.MustChangePassword = mustChange
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	u, ok := f.users[id]
	if !ok || u.Role != domain.RoleEmployee {
		return domain.ErrNotFound
	}
	delete(f.users, id)
	return nil
}
