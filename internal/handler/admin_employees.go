package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Kabita-developer/Attendence-System/internal/service"
	"github.com/go-chi/chi/v5"
)

// AdminEmployeeHandler manages the employee directory.
type AdminEmployeeHandler struct {
	Employees *service.EmployeeService
}

func (h AdminEmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/employees", h.list)
	r.Post("/admin/employees", h.create)
	r.Get("/admin/employees/{employeeId}", h.get)
	r.Put("/admin/employees/{employeeId}", h.update)
	r.Delete("/admin/employees/{employeeId}", h.delete)
}

func (h AdminEmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	items, err := h.Employees.List(r.Context(), activeOnly)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, u := range items {
		resp = append(resp, userPayload(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h AdminEmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.Employees.Create(r.Context(), service.EmployeeInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userPayload(*user))
}

func (h AdminEmployeeHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Employees.Get(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userPayload(*user))
}

func (h AdminEmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		IsActive *bool   `json:"isActive"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.Employees.Update(r.Context(), chi.URLParam(r, "employeeId"), service.EmployeePatch{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		IsActive: req.IsActive,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userPayload(*user))
}

func (h AdminEmployeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Employees.Delete(r.Context(), chi.URLParam(r, "employeeId")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
