package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/hms-api/internal/config"
	"github.com/jwalitptl/hms-api/internal/email"
	appointmentHandler "github.com/jwalitptl/hms-api/internal/handler/appointment"
	slotHandler "github.com/jwalitptl/hms-api/internal/handler/slot"
	userHandler "github.com/jwalitptl/hms-api/internal/handler/user"
	"github.com/jwalitptl/hms-api/internal/repository/postgres"
	"github.com/jwalitptl/hms-api/internal/router"
	appointmentService "github.com/jwalitptl/hms-api/internal/service/appointment"
	slotService "github.com/jwalitptl/hms-api/internal/service/slot"
	userService "github.com/jwalitptl/hms-api/internal/service/user"
	"github.com/jwalitptl/hms-api/pkg/logger"
	"github.com/jwalitptl/hms-api/pkg/security"
	"github.com/jwalitptl/hms-api/pkg/validator"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger(nil).Fatal(err, "Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	l := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		l.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	slotRepo := postgres.NewSlotRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	validate := validator.New()
	hasher := security.NewBcryptHasher(12)
	emailSvc := email.NewService(cfg.Email)

	userSvc := userService.NewService(userRepo, hasher, validate)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo, userRepo, outboxRepo, emailSvc, validate, l)
	slotSvc := slotService.NewService(slotRepo, userRepo, validate)

	engine := router.New(&cfg.Server, db, router.Handlers{
		User:        userHandler.NewHandler(userSvc),
		Appointment: appointmentHandler.NewHandler(appointmentSvc),
		Slot:        slotHandler.NewHandler(slotSvc),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		l.Info("Starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal(err, "Server failed")
		}
	}()

	<-ctx.Done()
	l.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error(err, "Graceful shutdown failed")
	}
}
