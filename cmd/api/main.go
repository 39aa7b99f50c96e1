package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/pcbuilderguide/pcbg/internal/auth"
	"github.com/pcbuilderguide/pcbg/internal/config"
	"github.com/pcbuilderguide/pcbg/internal/contact"
	"github.com/pcbuilderguide/pcbg/internal/db"
	"github.com/pcbuilderguide/pcbg/internal/handlers"
	"github.com/pcbuilderguide/pcbg/internal/logging"
	"github.com/pcbuilderguide/pcbg/internal/middleware"
	"github.com/pcbuilderguide/pcbg/internal/repo"
	"github.com/pcbuilderguide/pcbg/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logging.New(cfg.LogFormat, cfg.LogLevel, cfg.Env)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Env != "prod" && cfg.JWTSecret == config.DefaultJWTSecret {
		slog.Warn("using default JWT secret; set JWT_SECRET outside dev")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database FIRST
	database, err := db.Connect(ctx, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass,
		cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		return err
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Migrate(cfg.DatabaseURL()); err != nil {
		return err
	}

	if cfg.AdminSeed {
		authSvc := newAuthService(database, cfg)
		admin, err := authSvc.EnsureAdmin(ctx)
		if err != nil {
			return err
		}
		slog.Info("admin account ready", "user_id", admin.ID)
	}

	go func() {
		job := &scheduler.StatsJob{Users: repo.NewUserRepo(database), Messages: repo.NewContactRepo(database)}
		if err := scheduler.Run(ctx, cfg.StatsCron, job); err != nil {
			slog.Error("stats scheduler stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		// Start server LAST
		slog.Info("starting server", "addr", srv.Addr, "tls", cfg.TLSCertFile != "")
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newAuthService(database *sql.DB, cfg config.Config) *auth.Service {
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)
	return auth.NewService(repo.NewUserRepo(database), tokens, cfg.AdminPassword)
}

// newRouter wires the full HTTP surface. Split from main so tests can drive it with sqlmock.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	authSvc := newAuthService(database, cfg)
	contactSvc := contact.NewService(repo.NewContactRepo(database))

	authH := &handlers.AuthHandler{Service: authSvc}
	contactH := &handlers.ContactHandler{Service: contactSvc}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(database))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

		r.Post("/signup", authH.Signup)
		r.Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.Post("/contact", contactH.Submit)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTMiddleware(authSvc))
			r.Get("/auth/user", authH.CurrentUser)
			r.Get("/contact-messages", contactH.List)
		})
	})

	return r
}
