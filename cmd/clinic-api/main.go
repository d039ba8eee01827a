package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/config"
	v1 "github.com/alshifa-health/clinic-api/internal/handler/v1"
	"github.com/alshifa-health/clinic-api/internal/notify"
	"github.com/alshifa-health/clinic-api/internal/otp"
	"github.com/alshifa-health/clinic-api/internal/repository/postgres"
	"github.com/alshifa-health/clinic-api/internal/service"
	"github.com/alshifa-health/clinic-api/internal/worker"
	"github.com/alshifa-health/clinic-api/pkg/auth"
	"github.com/alshifa-health/clinic-api/pkg/database"
	"github.com/alshifa-health/clinic-api/pkg/logger"
	"github.com/alshifa-health/clinic-api/pkg/metrics"
	"github.com/alshifa-health/clinic-api/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment))

	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(db, log); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer redisClient.Close()

	collector := metrics.NewCollector(cfg.App.Name)
	if sqlDB, err := db.DB(); err == nil {
		collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
	}

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	patientRepo := postgres.NewPatientRepo(db)
	doctorRepo := postgres.NewDoctorRepo(db)
	clinicRepo := postgres.NewClinicRepo(db)
	apptRepo := postgres.NewAppointmentRepo(db)
	invRepo := postgres.NewInventoryRepo(db)
	recordRepo := postgres.NewRecordRepo(db)
	auditRepo := postgres.NewAuditRepo(db)

	// Shared infrastructure
	jwtManager := auth.NewJWTManager(cfg.JWT)
	mailer := notify.NewMailer(cfg.Mail, log)
	otpStore := otp.NewStore(redisClient, cfg.Redis.OTPCodeTTL)

	// Services
	auditSvc := service.NewAuditService(auditRepo, collector, log)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, patientRepo, doctorRepo, clinicRepo,
		otpStore, cfg.Redis.OTPCodeTTL, mailer, jwtManager, auditSvc, collector, log)
	schedulerSvc := service.NewSchedulerService(doctorRepo, apptRepo, collector, log)
	apptSvc := service.NewAppointmentService(apptRepo, doctorRepo, patientRepo, userRepo,
		mailer, auditSvc, collector, log)
	patientSvc := service.NewPatientService(patientRepo, log)
	clinicSvc := service.NewClinicService(clinicRepo, log)
	adminSvc := service.NewAdminService(doctorRepo, clinicRepo, auditSvc, log)
	invSvc := service.NewInventoryService(invRepo, clinicRepo, doctorRepo, log)
	recordSvc := service.NewRecordService(recordRepo, patientRepo, auditSvc, log)
	chatSvc := service.NewChatService(schedulerSvc, apptSvc, log)

	dashboardSvc := service.NewDashboardService(apptRepo, float64(cfg.Clinic.VisitFee), log)

	// Background jobs
	reminder := worker.NewReminder(apptRepo, patientRepo, doctorRepo, userRepo,
		mailer, collector, log, cfg.Clinic.ReminderLeadHours, cfg.Clinic.ReminderCronSpec)
	if err := reminder.Start(); err != nil {
		return fmt.Errorf("starting reminder job: %w", err)
	}
	defer reminder.Stop()

	handlers := &v1.Handlers{
		Auth:        v1.NewAuthHandler(authSvc),
		Appointment: v1.NewAppointmentHandler(apptSvc, schedulerSvc),
		Doctor:      v1.NewDoctorHandler(schedulerSvc, dashboardSvc),
		Patient:     v1.NewPatientHandler(patientSvc),
		Clinic:      v1.NewClinicHandler(clinicSvc),
		Admin:       v1.NewAdminHandler(adminSvc),
		Inventory:   v1.NewInventoryHandler(invSvc),
		Record:      v1.NewRecordHandler(recordSvc),
		Chat:        v1.NewChatHandler(chatSvc),
	}

	router := v1.NewRouter(cfg, handlers, jwtManager, collector, db, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("stopped")
	return nil
}
