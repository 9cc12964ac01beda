package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/verifycheck/leads-api/pkg/logging"
)

// Pinger reports whether the backing datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EmailInfo describes the configured notification transport without
// exposing any credentials.
type EmailInfo struct {
	Provider      string `json:"provider"`
	From          string `json:"from"`
	Recipient     string `json:"recipient"`
	HasCredential bool   `json:"hasCredential"`
}

// DiagnosticsHandler serves admin-only health probes for the database
// connection and the email configuration.
type DiagnosticsHandler struct {
	db     Pinger
	email  EmailInfo
	logger *logging.Logger
}

func NewDiagnosticsHandler(db Pinger, email EmailInfo, logger *logging.Logger) *DiagnosticsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DiagnosticsHandler{db: db, email: email, logger: logger}
}

// CheckDB probes the MongoDB connection and reports round-trip latency.
func (h *DiagnosticsHandler) CheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeDiag(w, http.StatusOK, map[string]any{
			"success":    true,
			"configured": false,
			"message":    "No database configured; leads are held in memory",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("database diagnostics failed", "error", err)
		writeDiag(w, http.StatusServiceUnavailable, map[string]any{
			"success":    false,
			"configured": true,
			"message":    "Database unreachable",
			"error":      err.Error(),
		})
		return
	}

	writeDiag(w, http.StatusOK, map[string]any{
		"success":    true,
		"configured": true,
		"latencyMs":  time.Since(start).Milliseconds(),
	})
}

// CheckEmail reports whether the notification transport is fully
// configured. It never sends mail and never echoes secrets.
func (h *DiagnosticsHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	configured := h.email.Recipient != "" && (h.email.Provider == "stub" || h.email.HasCredential)
	writeDiag(w, http.StatusOK, map[string]any{
		"success":    true,
		"configured": configured,
		"transport":  h.email,
	})
}

func writeDiag(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
