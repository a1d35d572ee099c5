package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/Kabita-developer/Attendence-System/internal/server/authctx"
	"github.com/Kabita-developer/Attendence-System/internal/service"
	"github.com/go-chi/chi/v5"
)

// SalaryLogReader is the audit-trail read side used by the admin surface.
type SalaryLogReader interface {
	ListByUserRange(ctx context.Context, userID int64, from, to time.Time) ([]domain.SalaryLog, error)
}

// AdminAttendanceHandler is the review and correction surface.
type AdminAttendanceHandler struct {
	Attendance *service.AttendanceService
	Reports    *service.ReportService
	SalaryLogs SalaryLogReader
	Users      service.EmployeeReader
	Timezone   *time.Location
}

func (h AdminAttendanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/attendance", h.listMonth)
	r.Post("/admin/attendance/{id}/approve", h.approve)
	r.Post("/admin/attendance/{id}/reject", h.reject)
	r.Put("/admin/attendance", h.upsert)
	r.Post("/admin/attendance/clear", h.clear)
	r.Delete("/admin/attendance", h.delete)
	r.Get("/admin/salary-logs", h.salaryLogs)
}

func (h AdminAttendanceHandler) listMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseMonthQuery(r, h.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format (use YYYY-MM)")
		return
	}
	groups, err := h.Reports.AdminMonth(r.Context(), year, month, r.URL.Query().Get("employeeId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h AdminAttendanceHandler) approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Attendance.Approve)
}

func (h AdminAttendanceHandler) reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Attendance.Reject)
}

func (h AdminAttendanceHandler) review(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, adminID, attendanceID int64, adminNote *string) (*domain.Attendance, error),
) {
	admin := authctx.FromContext(r.Context())
	if admin == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid attendance id")
		return
	}
	var req struct {
		AdminNote *string `json:"adminNote"`
	}
	// Empty body is fine; the note is optional.
	_ = json.NewDecoder(r.Body).Decode(&req)

	rec, err := fn(r.Context(), admin.ID, id, req.AdminNote)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attendancePayload(*rec))
}

func (h AdminAttendanceHandler) upsert(w http.ResponseWriter, r *http.Request) {
	admin := authctx.FromContext(r.Context())
	if admin == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		EmployeeID     string  `json:"employeeId"`
		Date           string  `json:"date"`
		SlotID         int64   `json:"slotId"`
		Status         string  `json:"status"`
		AttendanceTime *string `json:"attendanceTime"`
		AdminNote      string  `json:"adminNote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.EmployeeID == "" || req.Date == "" || req.SlotID == 0 || req.Status == "" {
		writeError(w, http.StatusBadRequest, "employeeId, date, slotId and status are required")
		return
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, h.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
		return
	}
	in := service.UpsertInput{
		EmployeeID: req.EmployeeID,
		Date:       date,
		SlotID:     req.SlotID,
		Status:     domain.AttendanceStatus(req.Status),
		AdminNote:  req.AdminNote,
	}
	if req.AttendanceTime != nil {
		at, err := time.ParseInLocation(time.RFC3339, *req.AttendanceTime, h.Timezone)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid attendanceTime (use RFC3339)")
			return
		}
		in.AttendanceTime = &at
	}

	rec, err := h.Attendance.Upsert(r.Context(), admin.ID, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attendancePayload(*rec))
}

func (h AdminAttendanceHandler) clear(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeId"`
		Date       string `json:"date"`
		SlotID     *int64 `json:"slotId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.EmployeeID == "" || req.Date == "" {
		writeError(w, http.StatusBadRequest, "employeeId and date are required")
		return
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, h.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
		return
	}
	n, err := h.Attendance.Clear(r.Context(), req.EmployeeID, date, req.SlotID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": n})
}

func (h AdminAttendanceHandler) delete(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	dateStr := r.URL.Query().Get("date")
	if employeeID == "" || dateStr == "" {
		writeError(w, http.StatusBadRequest, "employeeId and date are required")
		return
	}
	date, err := time.ParseInLocation(dateLayout, dateStr, h.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)")
		return
	}
	var slotID *int64
	if raw := r.URL.Query().Get("slotId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid slotId")
			return
		}
		slotID = &id
	}
	removed, err := h.Attendance.Delete(r.Context(), employeeID, date, slotID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "no attendance matched")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h AdminAttendanceHandler) salaryLogs(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeError(w, http.StatusBadRequest, "employeeId is required")
		return
	}
	year, month, err := parseMonthQuery(r, h.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format (use YYYY-MM)")
		return
	}
	user, err := h.Users.GetEmployee(r.Context(), employeeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, h.Timezone)
	logs, err := h.SalaryLogs.ListByUserRange(r.Context(), user.ID, from, from.AddDate(0, 1, 0))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, map[string]any{
			"id":           l.ID,
			"attendanceId": l.AttendanceID,
			"date":         l.AttendanceDate.Format(dateLayout),
			"slots":        l.Slots,
			"amount":       l.Amount,
			"action":       string(l.Action),
			"createdBy":    l.CreatedBy,
			"createdAt":    l.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func attendancePayload(rec domain.Attendance) map[string]any {
	payload := map[string]any{
		"id":             rec.ID,
		"userId":         rec.UserID,
		"date":           rec.AttendanceDate.Format(dateLayout),
		"slotId":         rec.SlotID,
		"slotName":       rec.Snapshot.Name,
		"time":           rec.AttendanceTime.Format(time.RFC3339),
		"status":         string(rec.Status),
		"slotSalary":     rec.SlotSalary,
		"lateByMinutes":  rec.LateByMinutes,
		"warningMessage": rec.WarningMessage,
		"adminNote":      rec.AdminNote,
	}
	if rec.ReviewedBy != nil {
		payload["reviewedBy"] = *rec.ReviewedBy
	}
	if rec.ReviewedAt != nil {
		payload["reviewedAt"] = rec.ReviewedAt.Format(time.RFC3339)
	}
	return payload
}
