package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/server/authctx"
	"github.com/Kabita-developer/Attendence-System/internal/service"
	"github.com/go-chi/chi/v5"
)

// AttendanceHandler is the employee self-service surface: mark a slot, view
// the own month.
type AttendanceHandler struct {
	Attendance *service.AttendanceService
	Reports    *service.ReportService
	Timezone   *time.Location
}

func (h AttendanceHandler) RegisterRoutes(r chi.Router) {
	r.Post("/attendance/mark", h.mark)
	r.Get("/attendance/me", h.myMonth)
}

func (h AttendanceHandler) mark(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		SlotID int64 `json:"slotId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.SlotID == 0 {
		writeError(w, http.StatusBadRequest, "slotId is required")
		return
	}
	rec, err := h.Attendance.Mark(r.Context(), user.ID, req.SlotID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":             rec.ID,
		"date":           rec.AttendanceDate.Format(dateLayout),
		"slotId":         rec.SlotID,
		"slotName":       rec.Snapshot.Name,
		"time":           rec.AttendanceTime.Format(time.RFC3339),
		"status":         string(rec.Status),
		"slotSalary":     rec.SlotSalary,
		"lateByMinutes":  rec.LateByMinutes,
		"warningMessage": rec.WarningMessage,
	})
}

func (h AttendanceHandler) myMonth(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	year, month, err := parseMonthQuery(r, h.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format (use YYYY-MM)")
		return
	}
	groups, err := h.Reports.EmployeeMonth(r.Context(), user.ID, year, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
