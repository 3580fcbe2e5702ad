package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coreybb/tasktracker/webutil"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Database    string `json:"database"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

// HealthHandler always answers 200; a failed database ping downgrades the
// status to "degraded" instead.
func HealthHandler(db Pinger, environment string, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:      "ok",
			Message:     "Server is running!",
			Database:    "connected",
			Timestamp:   now().UTC().Format(time.RFC3339),
			Environment: environment,
		}

		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			slog.Warn("Health check database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "disconnected"
		}

		webutil.RespondWithJSON(w, http.StatusOK, resp)
	}
}
