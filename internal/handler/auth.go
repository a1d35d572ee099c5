package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/Kabita-developer/Attendence-System/internal/server/authctx"
	"github.com/Kabita-developer/Attendence-System/internal/service"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	Service *service.AuthService
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)
	r.Post("/auth/admin-signup", h.adminSignup)
}

// RegisterProtectedRoutes mounts the endpoints that need a valid token.
func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/change-password", h.changePassword)
	r.Get("/auth/me", h.me)
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeId"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Login(r.Context(), req.EmployeeID, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken":        res.AccessToken,
		"expiresAt":          res.ExpiresAt.Format(time.RFC3339),
		"user":               userPayload(res.User),
		"mustChangePassword": res.User.MustChangePassword,
	})
}

func (h AuthHandler) adminSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		SetupKey string `json:"setupKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.Service.AdminSignup(r.Context(), service.AdminSignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		SetupKey: req.SetupKey,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userPayload(*user))
}

func (h AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.Service.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	full, err := h.Service.Users.GetByID(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userPayload(*full))
}

func userPayload(u domain.User) map[string]any {
	return map[string]any{
		"id":                 u.ID,
		"employeeId":         u.EmployeeID,
		"role":               string(u.Role),
		"name":               u.Name,
		"email":              u.Email,
		"phone":              u.Phone,
		"isActive":           u.IsActive,
		"mustChangePassword": u.MustChangePassword,
	}
}
