package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/verifycheck/leads-api/internal/leads"
	"github.com/verifycheck/leads-api/pkg/logging"
)

// Handler re-sends a lead notification from a posted payload. The
// dashboard uses it to replay alerts that failed at intake time.
type Handler struct {
	svc     *Service
	logger  *logging.Logger
	timeout time.Duration
}

// NewHandler creates the resend handler.
func NewHandler(svc *Service, logger *logging.Logger, timeout time.Duration) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{svc: svc, logger: logger, timeout: timeout}
}

type resendRequest struct {
	Kind string      `json:"kind"`
	Lead *leads.Lead `json:"lead"`
}

type resendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HandleResend handles POST /notifications/lead.
func (h *Handler) HandleResend(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, resendResponse{Message: "Invalid request body"})
		return
	}

	if req.Kind == "" || req.Lead == nil {
		h.writeJSON(w, http.StatusBadRequest, resendResponse{Message: "kind and lead are required"})
		return
	}
	kind, ok := leads.ParseKind(req.Kind)
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, resendResponse{Message: `Invalid kind. Must be "b2b" or "b2c"`})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.svc.NotifyLead(ctx, kind, req.Lead); err != nil {
		h.logger.Error("resend failed", "error", err, "kind", kind, "lead_id", req.Lead.ID)
		h.writeJSON(w, http.StatusInternalServerError, resendResponse{
			Message: "Failed to send email",
			Error:   err.Error(),
		})
		return
	}

	h.logger.Info("notification resent", "kind", kind, "lead_id", req.Lead.ID)
	h.writeJSON(w, http.StatusOK, resendResponse{Success: true, Message: "Email sent successfully"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
