package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/verifycheck/leads-api/internal/http/handlers"
	httpmiddleware "github.com/verifycheck/leads-api/internal/http/middleware"
	"github.com/verifycheck/leads-api/internal/leads"
	"github.com/verifycheck/leads-api/internal/notify"
	"github.com/verifycheck/leads-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	NotifyHandler      *notify.Handler
	Diagnostics        *handlers.DiagnosticsHandler
	MetricsHandler     http.Handler
	AdminToken         string
	CORSAllowedOrigins []string

	// Requests/sec and burst for the public intake endpoints.
	// Zero disables rate limiting.
	IntakeRateLimit float64
	IntakeBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	// Mounted even with an empty allowlist so preflight OPTIONS always
	// gets its 200; header emission stays origin-gated.
	r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	r.MethodNotAllowed(methodNotAllowed("GET, POST, DELETE, OPTIONS, HEAD"))

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/leads", func(lr chi.Router) {
		lr.MethodNotAllowed(methodNotAllowed("GET, OPTIONS"))
		lr.Get("/", cfg.LeadsHandler.ListLeads)

		intake := lr.Group(nil)
		if cfg.IntakeRateLimit > 0 {
			intake.Use(httpmiddleware.RateLimit(cfg.IntakeRateLimit, cfg.IntakeBurst))
		}
		intake.Route("/b2b", func(ir chi.Router) {
			ir.MethodNotAllowed(methodNotAllowed("POST, OPTIONS, HEAD"))
			ir.Post("/", cfg.LeadsHandler.CreateB2BLead)
			ir.Head("/", intakeProbe)
		})
		intake.Route("/b2c", func(ir chi.Router) {
			ir.MethodNotAllowed(methodNotAllowed("POST, OPTIONS, HEAD"))
			ir.Post("/", cfg.LeadsHandler.CreateB2CLead)
			ir.Head("/", intakeProbe)
		})
	})

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(httpmiddleware.AdminToken(cfg.AdminToken))
		ar.MethodNotAllowed(methodNotAllowed("GET, DELETE, OPTIONS"))
		ar.Delete("/leads", cfg.LeadsHandler.PurgeLeads)
		if cfg.Diagnostics != nil {
			ar.Get("/diagnostics/db", cfg.Diagnostics.CheckDB)
			ar.Get("/diagnostics/email", cfg.Diagnostics.CheckEmail)
		}
	})

	if cfg.NotifyHandler != nil {
		r.Route("/notifications", func(nr chi.Router) {
			nr.Use(httpmiddleware.AdminToken(cfg.AdminToken))
			nr.MethodNotAllowed(methodNotAllowed("POST, OPTIONS"))
			nr.Post("/lead", cfg.NotifyHandler.HandleResend)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// intakeProbe answers HEAD requests that uptime monitors aim at the
// form endpoints.
func intakeProbe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// methodNotAllowed writes the 405 envelope with an explicit Allow
// header; chi does not set one when a custom handler is installed.
func methodNotAllowed(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"success":false,"message":"Method not allowed"}`))
	}
}
