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
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/thriveverse/backend/internal/config"
	"github.com/thriveverse/backend/internal/handler"
	appMiddleware "github.com/thriveverse/backend/internal/middleware"
	"github.com/thriveverse/backend/internal/mirror"
	"github.com/thriveverse/backend/internal/repository"
	"github.com/thriveverse/backend/internal/service"
	"github.com/thriveverse/backend/pkg/logger"
	"github.com/thriveverse/backend/pkg/payment"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log := logger.New("server", level)

	ctx := context.Background()

	// Initialize database
	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database error")
	}
	defer db.Close()

	// Run migrations
	if err := repository.RunMigrations(ctx, db); err != nil {
		log.WithError(err).Fatal("migration error")
	}
	log.Info("database connected & migrated")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// External collaborators: payment gateway and record mirror,
	// constructed once and injected into the services that need them.
	gateway := payment.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	var recordMirror mirror.Mirror
	if cfg.AirtableAPIKey != "" && cfg.AirtableBaseID != "" {
		recordMirror = mirror.NewAirtableClient(cfg.AirtableAPIKey, cfg.AirtableBaseID, cfg.AirtableTable)
		log.Info("record mirror enabled")
	} else {
		log.Warn("record mirror disabled, no Airtable credentials")
	}

	dispatcher := mirror.NewDispatcher(256, log.Named("mirror"))
	dispatcher.Start()
	defer dispatcher.Stop()

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.FreeCredits, userRepo, log.Named("auth"))
	appSvc := service.NewApplicationService(appRepo, recordMirror, dispatcher, log.Named("applications"))
	paymentSvc := service.NewPaymentService(paymentRepo, userRepo, gateway, cfg.RazorpayKeySecret, log.Named("payments"))

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	appHandler := handler.NewApplicationHandler(appSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	plansHandler := handler.NewPlansHandler()
	healthHandler := handler.NewHealthHandler(db)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(appMiddleware.Recovery(log.Named("recovery")))
	r.Use(appMiddleware.Logger(log.Named("http")))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global rate limiter (20 req/sec per IP, burst of 40)
	globalRL := appMiddleware.NewRateLimiter(20, 40)
	r.Use(globalRL.Middleware())

	// Public routes
	r.Get("/health", healthHandler.Check)
	r.Get("/api/plans", plansHandler.List)

	// Registration and login, strictly rate limited
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.StrictRateLimiter())
		r.Post("/api/users/register", authHandler.Register)
		r.Post("/api/users/login", authHandler.Login)
	})

	// Protected API routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Auth(authSvc))

		// Profile
		r.Get("/api/users/profile", authHandler.Profile)
		r.Put("/api/users/profile", authHandler.UpdateProfile)

		// Applications
		r.Post("/api/emails/applications", appHandler.Create)
		r.Get("/api/emails/applications", appHandler.List)
		r.Get("/api/emails/applications/{id}", appHandler.Get)
		r.Put("/api/emails/applications/{id}", appHandler.Update)
		r.Post("/api/emails/applications/{id}/send", appHandler.Send)
		r.Post("/api/emails/applications/{id}/archive", appHandler.Archive)

		// Payments & subscription
		r.Post("/api/subscription/orders", paymentHandler.CreateOrder)
		r.Post("/api/subscription/verify-payment", paymentHandler.Verify)
		r.Get("/api/subscription/details", paymentHandler.Details)
		r.Get("/api/subscription/payments", paymentHandler.History)
		r.Post("/api/subscription/cancel", paymentHandler.Cancel)
	})

	// Start server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.WithField("addr", addr).Info("backend listening")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.WithError(err).Fatal("server error")
	}
}
