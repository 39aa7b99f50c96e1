package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// Health is a liveness probe; it does not touch the database.
func Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready pings the database.
func Ready(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
