package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/rutina-app/rutina-engine/internal/adapters/cache"
	adapterHTTP "github.com/rutina-app/rutina-engine/internal/adapters/handler/http"
	"github.com/rutina-app/rutina-engine/internal/adapters/repository"
	"github.com/rutina-app/rutina-engine/internal/core/domain"
	"github.com/rutina-app/rutina-engine/internal/core/services"
	"github.com/rutina-app/rutina-engine/internal/core/workers"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	serverPort := envOr("PORT", "8080")

	jwtSecret := envOr("JWT_SECRET", "dev-only-secret")
	jwtIssuer := envOr("JWT_ISSUER", "rutina-engine")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisDB, _ := strconv.Atoi(envOr("REDIS_DB", "0"))
	redisClient, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache and rate limiting: %v", err)
		redisClient = nil
	}

	habitStore := repository.NewPostgresHabitRepository(db)
	progressRepo := repository.NewPostgresProgressRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	var habitRepo domain.HabitRepository = habitStore
	if redisClient != nil {
		habitRepo = repository.NewCachedHabitRepository(habitStore, redisClient)
	}

	auditor := workers.NewStreakAuditWorker(habitRepo, progressRepo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditor.Start(ctx)

	habits := services.NewHabitService(habitRepo, nil)
	progress := services.NewProgressService(habitRepo, progressRepo, auditor, nil)
	stats := services.NewStatsService(habitRepo, progressRepo, nil)
	auth := services.NewAuthService(userRepo, nil)
	tokens := services.NewTokenService(jwtSecret, jwtIssuer, 12*time.Hour, userRepo, nil)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(auth, tokens),
		HabitHandler:    adapterHTTP.NewHabitHandler(habits),
		ProgressHandler: adapterHTTP.NewProgressHandler(progress),
		StatsHandler:    adapterHTTP.NewStatsHandler(stats),
		TokenService:    tokens,
		DB:              db,
		Redis:           redisClient,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Rutina Progress Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
