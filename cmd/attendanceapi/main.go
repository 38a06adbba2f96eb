package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	attendanceHandler "github.com/attendly/attendance-service/internal/attendance/handler"
	attendanceRepo "github.com/attendly/attendance-service/internal/attendance/repository"
	attendanceService "github.com/attendly/attendance-service/internal/attendance/service"
	auditHandler "github.com/attendly/attendance-service/internal/audit/handler"
	auditRepo "github.com/attendly/attendance-service/internal/audit/repository"
	auditService "github.com/attendly/attendance-service/internal/audit/service"
	holidayRepo "github.com/attendly/attendance-service/internal/holiday/repository"
	identityHandler "github.com/attendly/attendance-service/internal/identity/handler"
	"github.com/attendly/attendance-service/internal/identity/jwt"
	"github.com/attendly/attendance-service/internal/identity/policy"
	identityService "github.com/attendly/attendance-service/internal/identity/service"
	reportHandler "github.com/attendly/attendance-service/internal/report/handler"
	reportService "github.com/attendly/attendance-service/internal/report/service"
	requestHandler "github.com/attendly/attendance-service/internal/request/handler"
	requestRepo "github.com/attendly/attendance-service/internal/request/repository"
	requestService "github.com/attendly/attendance-service/internal/request/service"
	userHandler "github.com/attendly/attendance-service/internal/user/handler"
	userRepo "github.com/attendly/attendance-service/internal/user/repository"
	userService "github.com/attendly/attendance-service/internal/user/service"
	"github.com/attendly/attendance-service/pkg/clock"
	"github.com/attendly/attendance-service/pkg/config"
	"github.com/attendly/attendance-service/pkg/database"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
	"github.com/attendly/attendance-service/pkg/logger"
)

func main() {
	cfg, err := config.LoadWithValidation("attendanceapi")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("attendanceapi", cfg.Server.Environment)
	log.Info().Msg("starting Attendance service")

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	holidays := holidayRepo.NewHolidayRepository(db)
	businessClock := clock.New(cfg.Business.UTCOffsetSeconds, holidays)

	jwtManager := jwt.NewManager(&cfg.JWT)

	attendances := attendanceRepo.NewAttendanceRepository(db)
	requests := requestRepo.NewRequestRepository(db)
	users := userRepo.NewUserRepository(db, attendances, requests)
	audits := auditRepo.NewAuditRepository(db)

	auditRecorder := auditService.NewRecorder(audits, log)

	authSvc := identityService.NewAuthService(users, jwtManager, log)
	userSvc := userService.NewUserService(users, businessClock, cfg.Business, log)
	attendanceSvc := attendanceService.NewAttendanceService(attendances, businessClock, cfg.Business, auditRecorder, log)
	requestSvc := requestService.NewRequestService(requests, attendances, businessClock, cfg.Business, auditRecorder, log)
	reportSvc := reportService.NewReportService(attendanceSvc, log)

	authH := identityHandler.NewAuthHandler(authSvc, log)
	userH := userHandler.NewUserHandler(userSvc, auditRecorder, log)
	attendanceH := attendanceHandler.NewAttendanceHandler(attendanceSvc, userSvc, log)
	requestH := requestHandler.NewRequestHandler(requestSvc, userSvc, log)
	auditH := auditHandler.NewAuditHandler(auditRecorder, log)
	reportH := reportHandler.NewReportHandler(reportSvc, userSvc, log)

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(cfg.Server.ReadTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"database": db.Health(r.Context()),
		})
	})

	auth := httputil.AuthMiddleware(jwtManager)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authH.Login)
		r.With(auth).Get("/me", authH.Me)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(auth)
		r.Get("/{id}", userH.Get)
	})

	r.Route("/admin/users", func(r chi.Router) {
		r.Use(auth)
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				principal, _ := httputil.GetPrincipal(req.Context())
				if !policy.CanManageUsers(principal) {
					httputil.Error(w, errors.Forbidden(""))
					return
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Post("/", userH.Create)
		r.Get("/", userH.List)
		r.Patch("/{id}", userH.Update)
		r.Post("/{id}/reset-password", userH.ResetPassword)
		r.Delete("/{id}", userH.Delete)
		r.Post("/{id}/restore", userH.Restore)
		r.Post("/purge", userH.Purge)
	})

	r.Route("/admin/audit", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", auditH.List)
	})

	r.Route("/attendance", func(r chi.Router) {
		r.Use(auth)
		r.Post("/check-in", attendanceH.CheckIn)
		r.Post("/check-out", attendanceH.CheckOut)
		r.Get("/today", attendanceH.Today)
		r.Get("/me", attendanceH.Me)
	})

	r.Route("/requests", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", requestH.Create)
		r.Get("/me", requestH.Mine)
		r.Get("/pending", requestH.Pending)
		r.Get("/{id}", requestH.Get)
		r.Post("/{id}/approve", requestH.Approve)
		r.Post("/{id}/reject", requestH.Reject)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Use(auth)
		r.Get("/attendance", reportH.Attendance)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
