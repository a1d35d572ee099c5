package handler

import (
	"net/http"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/Kabita-developer/Attendence-System/internal/salary"
	"github.com/Kabita-developer/Attendence-System/internal/service"
	"github.com/go-chi/chi/v5"
)

// SlotHandler is the employee-facing view of the slot registry.
type SlotHandler struct {
	Slots      *service.SlotService
	Attendance *service.AttendanceService
}

func (h SlotHandler) RegisterRoutes(r chi.Router) {
	r.Get("/slots", h.listActive)
}

// listActive returns the markable slots plus a projection of what marking
// right now would cover.
func (h SlotHandler) listActive(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Slots.ActiveSlots(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	proposal := h.Attendance.Preview(slots)

	resp := make([]map[string]any, 0, len(slots))
	for _, s := range slots {
		resp = append(resp, slotPayload(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slots": resp,
		"proposal": map[string]any{
			"proposedSlots":  proposal.ProposedSlots,
			"proposedSalary": proposal.ProposedSalary,
			"isLate":         proposal.IsLate,
			"lateByMinutes":  proposal.LateByMinutes,
			"warningMessage": proposal.WarningMessage,
		},
	})
}

func slotPayload(s domain.Slot) map[string]any {
	return map[string]any{
		"id":        s.ID,
		"name":      s.Name,
		"startTime": salary.FormatMinutes(s.StartMinutes),
		"endTime":   salary.FormatMinutes(s.EndMinutes),
		"salary":    s.Salary,
		"isActive":  s.IsActive,
		"sortOrder": s.SortOrder,
	}
}
