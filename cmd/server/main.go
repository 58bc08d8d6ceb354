package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cogniprep/internal/config"
	"cogniprep/internal/content"
	"cogniprep/internal/database"
	"cogniprep/internal/handlers"
	"cogniprep/internal/repository"
	"cogniprep/internal/security"
	"cogniprep/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Build the in-memory question bank
	questionRepo := repository.NewQuestionRepository(content.Build())
	log.Printf("Question bank built: %d/%d/%d questions per level",
		questionRepo.Count("level_1"), questionRepo.Count("level_2"), questionRepo.Count("level_3"))

	// Initialize repositories
	blobRepo := repository.NewBlobRepository(db)
	resultRepo := repository.NewResultRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Sweep session snapshots abandoned before the last restart
	cutoff := time.Now().Add(-cfg.StaleSessionAge)
	if n, err := blobRepo.DeleteOlderThan("current_session:", cutoff); err != nil {
		log.Printf("Warning: stale session sweep failed: %v", err)
	} else if n > 0 {
		log.Printf("Swept %d stale session snapshots", n)
	}

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	progressService := service.NewProgressService(blobRepo, resultRepo, profileRepo, emailService)
	selector := service.NewPoolSelector(questionRepo, nil)
	sessionManager := service.NewSessionManager(questionRepo, selector, blobRepo, progressService, nil)

	// Initialize handlers
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration)
	loginLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(tokens, loginLimiter)
	profileHandler := handlers.NewProfileHandler(profileRepo, tokens)
	sessionHandler := handlers.NewSessionHandler(sessionManager, questionRepo)
	resultsHandler := handlers.NewResultsHandler(resultRepo, progressService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/profiles", profileHandler.Create)
	mux.HandleFunc("POST /api/login", middleware.RateLimit(profileHandler.Login))

	// Profile routes
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(profileHandler.Get))
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(profileHandler.Update))

	// Session routes
	mux.HandleFunc("POST /api/session", middleware.RequireAuth(sessionHandler.Start))
	mux.HandleFunc("GET /api/session", middleware.RequireAuth(sessionHandler.Current))
	mux.HandleFunc("POST /api/session/resume", middleware.RequireAuth(sessionHandler.Resume))
	mux.HandleFunc("POST /api/session/answer", middleware.RequireAuth(sessionHandler.Answer))
	mux.HandleFunc("POST /api/session/advance", middleware.RequireAuth(sessionHandler.Advance))
	mux.HandleFunc("POST /api/session/retreat", middleware.RequireAuth(sessionHandler.Retreat))
	mux.HandleFunc("POST /api/session/jump", middleware.RequireAuth(sessionHandler.Jump))
	mux.HandleFunc("POST /api/session/pause", middleware.RequireAuth(sessionHandler.Pause))
	mux.HandleFunc("POST /api/session/complete", middleware.RequireAuth(sessionHandler.Complete))
	mux.HandleFunc("POST /api/session/exit", middleware.RequireAuth(sessionHandler.Exit))

	// Results and progress routes
	mux.HandleFunc("GET /api/results/tests", middleware.RequireAuth(resultsHandler.TestResults))
	mux.HandleFunc("GET /api/results/practice", middleware.RequireAuth(resultsHandler.PracticeResults))
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(resultsHandler.Progress))
	mux.HandleFunc("GET /api/weak-areas", middleware.RequireAuth(resultsHandler.WeakAreas))
	mux.HandleFunc("GET /api/settings", middleware.RequireAuth(resultsHandler.GetSettings))
	mux.HandleFunc("PUT /api/settings", middleware.RequireAuth(resultsHandler.SaveSettings))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start weekly guardian summaries
	go sendWeeklySummaries(progressService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// sendWeeklySummaries mails guardians once a week, on Sunday evenings
func sendWeeklySummaries(progress *service.ProgressService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	var lastSent time.Time
	for now := range ticker.C {
		if now.Weekday() != time.Sunday || now.Hour() != 18 {
			continue
		}
		if !lastSent.IsZero() && now.Sub(lastSent) < 24*time.Hour {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		if err := progress.SendWeeklySummaries(ctx); err != nil {
			log.Printf("Error sending weekly summaries: %v", err)
		}
		cancel()
		lastSent = now
	}
}
