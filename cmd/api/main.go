package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shiftwise/attendance-backend-go/internal/config"
	appHTTP "github.com/shiftwise/attendance-backend-go/internal/handler/http"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/cron"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/jwt"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/sse"
	"github.com/shiftwise/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/shiftwise/attendance-backend-go/internal/service/attendance"
	notificationService "github.com/shiftwise/attendance-backend-go/internal/service/notification"
	violationService "github.com/shiftwise/attendance-backend-go/internal/service/violation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		fmt.Println("Error running migrations:", err)
		return
	}
	cancel()

	logger := slog.Default()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	violationRepo := postgresql.NewViolationRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()
	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub)

	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		attendanceRepo,
		userRepo,
		branchRepo,
		shiftRepo,
		violationRepo,
		notificationSvc,
		logger,
	)
	violationSvc := violationService.NewViolationService(violationRepo)

	sweeper := attendanceService.NewSweeper(
		db,
		attendanceRepo,
		branchRepo,
		shiftRepo,
		violationRepo,
		notificationSvc,
		logger,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(sweeper).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, userRepo)
	violationHandler := appHTTP.NewViolationHandler(violationSvc, userRepo)
	notificationHandler := appHTTP.NewNotificationHandler(notificationRepo, hub)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		violationHandler,
		notificationHandler,
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.AllowedOrigins,
			Env:            cfg.App.Env,
		},
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
