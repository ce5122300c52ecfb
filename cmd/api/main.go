package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clinicpos/record-api/internal/auth"
	"github.com/clinicpos/record-api/internal/cache"
	"github.com/clinicpos/record-api/internal/config"
	appointmentHandler "github.com/clinicpos/record-api/internal/handler/appointment"
	"github.com/clinicpos/record-api/internal/handler/authn"
	branchHandler "github.com/clinicpos/record-api/internal/handler/branch"
	patientHandler "github.com/clinicpos/record-api/internal/handler/patient"
	staffHandler "github.com/clinicpos/record-api/internal/handler/staff"
	"github.com/clinicpos/record-api/internal/middleware"
	"github.com/clinicpos/record-api/internal/repository/postgres"
	"github.com/clinicpos/record-api/internal/router"
	appointmentService "github.com/clinicpos/record-api/internal/service/appointment"
	authService "github.com/clinicpos/record-api/internal/service/auth"
	branchService "github.com/clinicpos/record-api/internal/service/branch"
	patientService "github.com/clinicpos/record-api/internal/service/patient"
	staffService "github.com/clinicpos/record-api/internal/service/staff"
	"github.com/clinicpos/record-api/pkg/logger"
	redisbroker "github.com/clinicpos/record-api/pkg/messaging/redis"
	"github.com/clinicpos/record-api/pkg/metrics"
	"github.com/clinicpos/record-api/pkg/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.New(&logger.Config{Level: level, Pretty: cfg.Log.Pretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal(err, "failed to parse Redis URL")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	broker, err := redisbroker.NewBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log)
	if err != nil {
		log.Fatal(err, "failed to connect to Redis broker")
	}
	defer broker.Close()

	m := metrics.New("clinic", prometheus.DefaultRegisterer)

	// Repositories
	tenantRepo := postgres.NewTenantRepository(db, m)
	branchRepo := postgres.NewBranchRepository(db, m)
	staffRepo := postgres.NewStaffRepository(db, m)
	patientRepo := postgres.NewPatientRepository(db, m)
	appointmentRepo := postgres.NewAppointmentRepository(db, m)

	// Cache layer
	store := cache.NewRedisStore(redisClient)
	versions := cache.NewVersionStore(store)
	patientLists := cache.NewPatientListCache(store, versions, patientRepo, cfg.Cache.PatientListTTL, m, log)

	// Services
	hasher := security.NewBcryptHasher(0)
	authSvc := authService.NewService(staffRepo, hasher, authService.Config{
		Secret:         cfg.JWT.Secret,
		SessionTTL:     cfg.JWT.SessionTTL,
		TokenLookupTTL: cfg.JWT.TokenLookupTTL,
	})
	patientSvc := patientService.NewService(patientRepo, versions, patientLists, log)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, broker, versions, m, log)
	branchSvc := branchService.NewService(branchRepo, tenantRepo)
	staffSvc := staffService.NewService(staffRepo, hasher)

	guard := auth.NewGuard()
	authMW := middleware.NewAuthMiddleware(authSvc)

	r := router.New(
		authMW,
		authn.NewHandler(authSvc),
		patientHandler.NewHandler(patientSvc, guard),
		appointmentHandler.NewHandler(appointmentSvc, guard),
		branchHandler.NewHandler(branchSvc, guard),
		staffHandler.NewHandler(staffSvc, guard),
		m,
		log,
		router.Config{
			RequestTimeout: cfg.Server.RequestTimeout,
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info(fmt.Sprintf("listening on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}
