package server

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/Kabita-developer/Attendence-System/internal/config"
	"github.com/Kabita-developer/Attendence-System/internal/domain"
	"github.com/Kabita-developer/Attendence-System/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	slots handler.SlotHandler,
	attendance handler.AttendanceHandler,
	adminSlots handler.AdminSlotHandler,
	adminAttendance handler.AdminAttendanceHandler,
	adminEmployees handler.AdminEmployeeHandler,
	adminReports handler.AdminReportHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		auth.RegisterProtectedRoutes(pr)

		// employee-level (employee/admin)
		pr.Group(func(er chi.Router) {
			er.Use(RequireRole(domain.RoleEmployee, domain.RoleAdmin))
			slots.RegisterRoutes(er)
			attendance.RegisterRoutes(er)
		})
		// admin-level
		pr.Group(func(ar chi.Router) {
			ar.Use(RequireRole(domain.RoleAdmin))
			adminSlots.RegisterRoutes(ar)
			adminAttendance.RegisterRoutes(ar)
			adminEmployees.RegisterRoutes(ar)
			adminReports.RegisterRoutes(ar)
		})
	})

	return r
}
