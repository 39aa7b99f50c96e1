package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/pcbuilderguide/pcbg/internal/logging"
	"github.com/pcbuilderguide/pcbg/internal/middleware"
)

const (
	cookieName  = "pcbg_token"
	defaultPort = "3000"
	defaultAPI  = "http://localhost:8080"
	envWebPort  = "PCBG_WEB_PORT"
	envAPIURL   = "PCBG_API_URL"
)

func main() {
	port := getEnv(envWebPort, defaultPort)
	apiBase := strings.TrimRight(getEnv(envAPIURL, defaultAPI), "/")
	env := getEnv("ENV", "dev")
	logger := logging.New(getEnv("LOG_FORMAT", ""), getEnv("LOG_LEVEL", "info"), env)

	app, err := newApp(apiBase, env == "prod")
	if err != nil {
		logger.Error("load templates", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("web UI listening", "addr", "http://localhost:"+port, "api", apiBase)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("web shutdown", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// pageCSP relaxes the API's JSON-only policy enough for server-rendered pages.
func pageCSP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https:; form-action 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(a.secureCookies))
	r.Use(pageCSP)
	r.Use(a.loadUser)

	// Health (no auth, no templates)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", a.home)
	for _, c := range components {
		r.Get("/"+c.Slug, a.componentPage(c))
	}

	r.Get("/contact", a.contactForm)
	r.Post("/contact", a.contactSubmit)

	r.Get("/signup", a.signupForm)
	r.Post("/signup", a.signupSubmit)
	r.Get("/login", a.loginForm)
	r.Post("/login", a.loginSubmit)
	r.Post("/logout", a.logout)

	r.Get("/profile", a.profile)
	r.Get("/admin", a.admin)

	r.NotFound(a.notFound)
	return r
}
