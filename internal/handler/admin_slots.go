package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/Kabita-developer/Attendence-System/internal/salary"
	"github.com/Kabita-developer/Attendence-System/internal/service"
	"github.com/go-chi/chi/v5"
)

// AdminSlotHandler manages the slot registry. Times travel as clock strings
// ("07:00 AM" or "19:00") and are stored as minutes since midnight.
type AdminSlotHandler struct {
	Slots *service.SlotService
}

func (h AdminSlotHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/slots", h.list)
	r.Post("/admin/slots", h.create)
	r.Put("/admin/slots/{id}", h.update)
	r.Delete("/admin/slots/{id}", h.delete)
}

func (h AdminSlotHandler) list(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Slots.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(slots))
	for _, s := range slots {
		resp = append(resp, slotPayload(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h AdminSlotHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		StartTime    string `json:"startTime"`
		EndTime      string `json:"endTime"`
		StartMinutes *int   `json:"startMinutes"`
		EndMinutes   *int   `json:"endMinutes"`
		Salary       int64  `json:"salary"`
		SortOrder    int    `json:"sortOrder"`
		IsActive     *bool  `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	startMinutes, err := resolveMinutes(req.StartTime, req.StartMinutes, "startTime")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	endMinutes, err := resolveMinutes(req.EndTime, req.EndMinutes, "endTime")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	slot, err := h.Slots.Create(r.Context(), service.SlotInput{
		Name:         req.Name,
		StartMinutes: startMinutes,
		EndMinutes:   endMinutes,
		Salary:       req.Salary,
		SortOrder:    req.SortOrder,
		IsActive:     active,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slotPayload(*slot))
}

func (h AdminSlotHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slot id")
		return
	}
	var req struct {
		Name         *string `json:"name"`
		StartTime    *string `json:"startTime"`
		EndTime      *string `json:"endTime"`
		StartMinutes *int    `json:"startMinutes"`
		EndMinutes   *int    `json:"endMinutes"`
		Salary       *int64  `json:"salary"`
		SortOrder    *int    `json:"sortOrder"`
		IsActive     *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	patch := service.SlotPatch{
		Name:         req.Name,
		StartMinutes: req.StartMinutes,
		EndMinutes:   req.EndMinutes,
		Salary:       req.Salary,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	}
	if req.StartTime != nil {
		minutes, err := salary.ParseTimeToMinutes(*req.StartTime)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		patch.StartMinutes = &minutes
	}
	if req.EndTime != nil {
		minutes, err := salary.ParseTimeToMinutes(*req.EndTime)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		patch.EndMinutes = &minutes
	}

	slot, err := h.Slots.Update(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slotPayload(*slot))
}

// resolveMinutes accepts either a clock string ("07:00 AM", "19:00") or raw
// minutes since midnight.
func resolveMinutes(timeStr string, minutes *int, field string) (int, error) {
	if timeStr != "" {
		return salary.ParseTimeToMinutes(timeStr)
	}
	if minutes != nil {
		return *minutes, nil
	}
	return 0, domain.Validationf("%s is required", field)
}

func (h AdminSlotHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slot id")
		return
	}
	if err := h.Slots.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
