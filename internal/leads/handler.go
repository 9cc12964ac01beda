package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/verifycheck/leads-api/internal/emailcheck"
	"github.com/verifycheck/leads-api/internal/observability/metrics"
	"github.com/verifycheck/leads-api/pkg/logging"
)

const (
	defaultStoreTimeout  = 10 * time.Second
	defaultNotifyTimeout = 5 * time.Second
)

var intakeTracer = otel.Tracer("verifycheck.internal.leads.intake")

// Notifier delivers a lead-capture alert. The send is bounded by the
// handler-imposed timeout and never retried within a request.
type Notifier interface {
	NotifyLead(ctx context.Context, kind Kind, lead *Lead) error
}

// Handler handles HTTP requests for leads.
type Handler struct {
	b2b      Repository
	b2c      Repository
	query    *QueryService
	notifier Notifier
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger

	storeTimeout  time.Duration
	notifyTimeout time.Duration
}

// NewHandler creates a leads handler over the two per-kind
// repositories.
func NewHandler(b2b, b2c Repository, notifier Notifier, m *metrics.LeadMetrics, logger *logging.Logger, storeTimeout, notifyTimeout time.Duration) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}
	return &Handler{
		b2b:           b2b,
		b2c:           b2c,
		query:         NewQueryService(b2b, b2c),
		notifier:      notifier,
		metrics:       m,
		logger:        logger,
		storeTimeout:  storeTimeout,
		notifyTimeout: notifyTimeout,
	}
}

// intakeResponse is the envelope returned by the intake endpoints.
type intakeResponse struct {
	Success bool   `json:"success"`
	Data    *Lead  `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CreateB2BLead handles POST /leads/b2b. An email, when supplied, must
// be business-grade.
func (h *Handler) CreateB2BLead(w http.ResponseWriter, r *http.Request) {
	h.createLead(w, r, KindB2B)
}

// CreateB2CLead handles POST /leads/b2c. Any well-formed email (or
// none) is accepted.
func (h *Handler) CreateB2CLead(w http.ResponseWriter, r *http.Request) {
	h.createLead(w, r, KindB2C)
}

func (h *Handler) createLead(w http.ResponseWriter, r *http.Request, kind Kind) {
	ctx, span := intakeTracer.Start(r.Context(), "leads.intake")
	defer span.End()
	span.SetAttributes(attribute.String("verifycheck.lead_kind", string(kind)))

	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode lead request", "error", err, "kind", kind)
		h.metrics.ObserveIntake(string(kind), "validation_failed")
		writeJSON(w, http.StatusBadRequest, intakeResponse{Message: "Invalid request body"})
		return
	}
	if kind == KindB2C {
		// Company is a B2B-only attribute.
		req.Company = ""
	}

	if err := req.Validate(); err != nil {
		ve, _ := AsValidationError(err)
		h.metrics.ObserveIntake(string(kind), "validation_failed")
		writeJSON(w, http.StatusBadRequest, intakeResponse{Message: ve.Message})
		return
	}

	if req.Email != "" {
		if kind == KindB2B {
			res := emailcheck.ValidateBusinessEmail(req.Email)
			if !res.Valid || !res.Business {
				h.metrics.ObserveIntake(string(kind), "validation_failed")
				writeJSON(w, http.StatusBadRequest, intakeResponse{Message: res.Message, Field: "email"})
				return
			}
		} else {
			res := emailcheck.ValidateConsumerEmail(req.Email)
			if !res.Valid {
				h.metrics.ObserveIntake(string(kind), "validation_failed")
				writeJSON(w, http.StatusBadRequest, intakeResponse{Message: res.Message, Field: "email"})
				return
			}
		}
	}

	repo := h.b2b
	if kind == KindB2C {
		repo = h.b2c
	}

	// Persistence is best-effort: a storage failure is logged and the
	// unsaved record carries on so the notification still has the full
	// lead data.
	var warning string
	storeCtx, cancelStore := context.WithTimeout(ctx, h.storeTimeout)
	lead, err := repo.Create(storeCtx, &req)
	cancelStore()
	if err != nil {
		if ve, ok := AsValidationError(err); ok {
			h.metrics.ObserveIntake(string(kind), "validation_failed")
			writeJSON(w, http.StatusBadRequest, intakeResponse{Message: ve.Message, Field: ve.Field})
			return
		}
		span.RecordError(err)
		h.logger.Error("lead save failed, continuing to notify", "error", err, "kind", kind, "name", req.Name)
		lead = req.Unsaved(kind)
		warning = "Lead captured but database save failed. Email notification was still sent."
	}

	// Notification is the step business stakeholders depend on; its
	// outcome decides the response.
	notifyCtx, cancelNotify := context.WithTimeout(ctx, h.notifyTimeout)
	start := time.Now()
	notifyErr := h.notifier.NotifyLead(notifyCtx, kind, lead)
	cancelNotify()

	if notifyErr != nil {
		span.RecordError(notifyErr)
		h.metrics.ObserveNotifyLatency(string(kind), "error", time.Since(start).Seconds())
		h.metrics.ObserveIntake(string(kind), "notify_failed")
		h.logger.Error("lead notification failed", "error", notifyErr, "kind", kind, "lead_id", lead.ID)
		writeJSON(w, http.StatusInternalServerError, intakeResponse{
			Data:    lead,
			Message: "Failed to send email notification",
			Error:   notifyErr.Error(),
		})
		return
	}

	span.SetAttributes(attribute.String("verifycheck.lead_id", lead.ID))
	h.metrics.ObserveNotifyLatency(string(kind), "ok", time.Since(start).Seconds())
	h.metrics.ObserveIntake(string(kind), "created")
	h.logger.Info("lead created", "kind", kind, "lead_id", lead.ID, "name", lead.Name, "saved", warning == "")
	writeJSON(w, http.StatusCreated, intakeResponse{Success: true, Data: lead, Warning: warning})
}

// listResponse is the envelope for GET /leads.
type listResponse struct {
	Success bool        `json:"success"`
	Kind    string      `json:"kind"`
	Total   int64       `json:"total"`
	Page    int64       `json:"page"`
	Limit   int64       `json:"limit"`
	Items   []*Lead     `json:"items"`
	Totals  *KindTotals `json:"totals,omitempty"`
}

// ListLeads handles GET /leads with kind, source, search, date-range,
// and pagination parameters.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := QueryParams{
		Kind:   q.Get("kind"),
		Source: q.Get("source"),
		Search: q.Get("search"),
		Page:   parseInt64(q.Get("page"), 1),
		Limit:  parseInt64(q.Get("limit"), defaultPageLimit),
	}
	if params.Source == "all" {
		params.Source = ""
	}

	var err error
	if params.From, err = parseTime(q.Get("from")); err != nil {
		writeJSON(w, http.StatusBadRequest, intakeResponse{Message: "Invalid from date (use ISO string)", Field: "from"})
		return
	}
	if params.To, err = parseTime(q.Get("to")); err != nil {
		writeJSON(w, http.StatusBadRequest, intakeResponse{Message: "Invalid to date (use ISO string)", Field: "to"})
		return
	}

	result, err := h.query.Query(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err, "kind", params.Kind)
		writeJSON(w, http.StatusInternalServerError, intakeResponse{Message: "Failed to list leads"})
		return
	}

	kind := params.Kind
	if _, ok := ParseKind(kind); !ok {
		kind = "all"
	}
	if result.Items == nil {
		result.Items = []*Lead{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Kind:    kind,
		Total:   result.Total,
		Page:    result.Page,
		Limit:   result.Limit,
		Items:   result.Items,
		Totals:  result.Totals,
	})
}

// purgeResponse is the envelope for DELETE /admin/leads.
type purgeResponse struct {
	Success      bool             `json:"success"`
	Kind         string           `json:"kind"`
	DeletedCount *int64           `json:"deletedCount,omitempty"`
	Deleted      map[string]int64 `json:"deleted,omitempty"`
}

// PurgeLeads handles DELETE /admin/leads?kind=&before=. Authentication
// happens in middleware; this only runs for valid bearer tokens.
func (h *Handler) PurgeLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cutoff, err := parseTime(q.Get("before"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, intakeResponse{Message: "Invalid before date (use ISO string)", Field: "before"})
		return
	}

	kindParam := q.Get("kind")
	if kind, ok := ParseKind(kindParam); ok {
		repo := h.b2b
		if kind == KindB2C {
			repo = h.b2c
		}
		res, err := repo.DeleteBefore(r.Context(), cutoff)
		if err != nil {
			h.logger.Error("failed to purge leads", "error", err, "kind", kind)
			writeJSON(w, http.StatusInternalServerError, intakeResponse{Message: "Failed to purge leads"})
			return
		}
		h.metrics.ObservePurge(string(kind), res.DeletedCount)
		h.logger.Info("leads purged", "kind", kind, "deleted", res.DeletedCount)
		writeJSON(w, http.StatusOK, purgeResponse{Success: true, Kind: string(kind), DeletedCount: &res.DeletedCount})
		return
	}
	if kindParam != "" && kindParam != "all" {
		writeJSON(w, http.StatusBadRequest, intakeResponse{Message: "Invalid kind (use b2b, b2c, or all)", Field: "kind"})
		return
	}

	b2bRes, err := h.b2b.DeleteBefore(r.Context(), cutoff)
	if err != nil {
		h.logger.Error("failed to purge b2b leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, intakeResponse{Message: "Failed to purge leads"})
		return
	}
	b2cRes, err := h.b2c.DeleteBefore(r.Context(), cutoff)
	if err != nil {
		h.logger.Error("failed to purge b2c leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, intakeResponse{Message: "Failed to purge leads"})
		return
	}
	h.metrics.ObservePurge(string(KindB2B), b2bRes.DeletedCount)
	h.metrics.ObservePurge(string(KindB2C), b2cRes.DeletedCount)
	h.logger.Info("leads purged", "kind", "all", "deleted_b2b", b2bRes.DeletedCount, "deleted_b2c", b2cRes.DeletedCount)
	writeJSON(w, http.StatusOK, purgeResponse{
		Success: true,
		Kind:    "all",
		Deleted: map[string]int64{
			string(KindB2B): b2bRes.DeletedCount,
			string(KindB2C): b2cRes.DeletedCount,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt64(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// parseTime accepts RFC 3339 timestamps or bare dates.
func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid time")
}
