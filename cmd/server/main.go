package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kabita-developer/Attendence-System/internal/cache"
	"github.com/Kabita-developer/Attendence-System/internal/clock"
	"github.com/Kabita-developer/Attendence-System/internal/config"
	"github.com/Kabita-developer/Attendence-System/internal/db"
	"github.com/Kabita-developer/Attendence-System/internal/handler"
	"github.com/Kabita-developer/Attendence-System/internal/repository"
	"github.com/Kabita-developer/Attendence-System/internal/seed"
	"github.com/Kabita-developer/Attendence-System/internal/server"
	"github.com/Kabita-developer/Attendence-System/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "err", err)
		os.Exit(1)
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	slotRepo := repository.SlotRepository{DB: pg}
	attendanceRepo := repository.AttendanceRepository{DB: pg}
	salaryLogRepo := repository.SalaryLogRepository{DB: pg}

	if cfg.SeedOnStart {
		if err := seed.Run(ctx, logger, slotRepo, userRepo); err != nil {
			logger.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	// services
	businessClock := clock.System(cfg.Timezone)
	slotSvc := &service.SlotService{Store: slotRepo, Cache: cache.New(), Logger: logger}
	attendanceSvc := &service.AttendanceService{
		Store:  attendanceRepo,
		Slots:  slotSvc,
		Users:  userRepo,
		Clock:  businessClock,
		Logger: logger,
	}
	reportSvc := &service.ReportService{Attendance: attendanceRepo, Users: userRepo, Timezone: cfg.Timezone}
	authSvc := &service.AuthService{Config: cfg, Users: userRepo, Logger: logger}
	employeeSvc := &service.EmployeeService{Store: userRepo, Logger: logger}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: authSvc}
	slotHandler := handler.SlotHandler{Slots: slotSvc, Attendance: attendanceSvc}
	attendanceHandler := handler.AttendanceHandler{Attendance: attendanceSvc, Reports: reportSvc, Timezone: cfg.Timezone}
	adminSlotHandler := handler.AdminSlotHandler{Slots: slotSvc}
	adminAttendanceHandler := handler.AdminAttendanceHandler{
		Attendance: attendanceSvc,
		Reports:    reportSvc,
		SalaryLogs: salaryLogRepo,
		Users:      userRepo,
		Timezone:   cfg.Timezone,
	}
	adminEmployeeHandler := handler.AdminEmployeeHandler{Employees: employeeSvc}
	adminReportHandler := handler.AdminReportHandler{Reports: reportSvc, Timezone: cfg.Timezone}

	router := server.NewRouter(cfg, logger,
		healthHandler,
		authHandler,
		slotHandler,
		attendanceHandler,
		adminSlotHandler,
		adminAttendanceHandler,
		adminEmployeeHandler,
		adminReportHandler,
	)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
