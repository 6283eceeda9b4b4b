// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/evently-app/evently/internal/auth"
	"github.com/evently-app/evently/internal/config"
	"github.com/evently-app/evently/internal/database"
	"github.com/evently-app/evently/internal/handler"
	"github.com/evently-app/evently/internal/model"
	"github.com/evently-app/evently/internal/repository"
	"github.com/evently-app/evently/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func main() {
	ctx := context.Background()

	// ── 1. Configuration and logging ─────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fallback := config.NewLogger(config.LoggingConfig{})
		fallback.Fatal().Err(err).Msg("config")
	}
	log := config.NewLogger(cfg.Logging)

	// ── 2. Connect to PostgreSQL and run migrations ──────────────────────
	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()
	log.Info().Msg("connected to PostgreSQL")

	if err := database.MigrateUp(cfg.Database.URL(), cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	// ── 3. Wire up layers ────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	venueRepo := repository.NewVenueRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	attendeeRepo := repository.NewAttendeeRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	authSvc := service.NewAuthService(userRepo, jwtManager, log)
	eventSvc := service.NewEventService(eventRepo, venueRepo, log)
	bookingSvc := service.NewBookingService(bookingRepo, userRepo, auditRepo, log)
	regSvc := service.NewRegistrationService(attendeeRepo, userRepo, eventRepo, log)

	if cfg.AdminBootstrap.Email != "" {
		hash, err := auth.HashPassword(cfg.AdminBootstrap.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("hash bootstrap admin password")
		}
		b := cfg.AdminBootstrap
		if err := userRepo.EnsureAdmin(ctx, b.FirstName, b.LastName, b.Email, hash); err != nil {
			log.Fatal().Err(err).Msg("bootstrap admin")
		}
	}

	studentHandler := handler.NewStudentHandler(authSvc, eventSvc, regSvc)
	clubHandler := handler.NewClubHandler(authSvc, eventSvc, bookingSvc, regSvc)
	adminHandler := handler.NewAdminHandler(authSvc, bookingSvc)

	loginLimiter := handler.NewRateLimiter(handler.LimiterConfig{
		RPS:     cfg.RateLimit.LoginRPS,
		Burst:   cfg.RateLimit.LoginBurst,
		IdleTTL: cfg.RateLimit.IdleTTL,
	})

	// ── 4. Build the router ──────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.RequestLogger(log))
	r.Use(cors.AllowAll().Handler)

	r.Get("/health", handler.HealthCheck)

	r.Route("/student", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			r.Post("/signup", studentHandler.Signup)
			r.Post("/login", studentHandler.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAuth(jwtManager))
			r.Use(handler.RequireRole(model.RoleStudent))
			r.Get("/events", studentHandler.ListEvents)
			r.Post("/events/{id}/register", studentHandler.Register)
		})
	})

	r.Route("/club", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/login", clubHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAuth(jwtManager))
			r.Use(handler.RequireRole(model.RoleClubMember))
			r.Post("/{clubID}/events", clubHandler.CreateEvent)
			r.Get("/{clubID}/events", clubHandler.ClubEvents)
			r.Get("/{clubID}/events/unbooked", clubHandler.UnbookedEvents)
			r.Get("/events/{id}/attendees", clubHandler.EventAttendees)
			r.Get("/venues", clubHandler.Venues)
			r.Post("/bookings", clubHandler.RequestBooking)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/login", adminHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAuth(jwtManager))
			r.Use(handler.RequireRole(model.RoleAdmin))
			r.Get("/bookings/pending", adminHandler.PendingBookings)
			r.Post("/bookings/{id}/approve", adminHandler.ApproveBooking)
			r.Post("/bookings/{id}/reject", adminHandler.RejectBooking)
			r.Get("/venues/{id}/availability", adminHandler.CheckAvailability)
			r.Get("/audit-log", adminHandler.AuditLog)
		})
	})

	// ── 5. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
