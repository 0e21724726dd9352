package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plexgram/internal/store"
)

// StatusHandler serves the operational endpoints for a running bot.
//
// Implements the [Handler] interface for registration with a [Router].
type StatusHandler struct {
	store     store.CredentialStore
	logger    *log.Logger
	startedAt time.Time
}

// StatusReport is the JSON body returned by the /status route.
type StatusReport struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Sessions      int    `json:"sessions"`
}

// NewStatusHandler creates a [StatusHandler] reporting against the given credential store.
func NewStatusHandler(credentials store.CredentialStore, logger *log.Logger) *StatusHandler {
	return &StatusHandler{
		store:     credentials,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *StatusHandler) Routes() []string {
	return []string{"/healthz", "/status"}
}

// ServeHTTP answers health and status probes.
//
// /healthz replies with a bare "ok" so load balancers need not parse JSON.
// /status reports uptime and the number of stored sessions.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/healthz":
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	case "/status":
		count, err := h.store.SessionCount()
		if err != nil {
			h.logger.Error("failed to count sessions", "error", err)
			http.Error(w, "Store unavailable", http.StatusServiceUnavailable)
			return
		}

		report := StatusReport{
			Status:        "ok",
			UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
			Sessions:      count,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(report); err != nil {
			h.logger.Error("failed to encode status report", "error", err)
		}
	default:
		http.NotFound(w, r)
	}
}
