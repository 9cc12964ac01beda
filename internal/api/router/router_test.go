package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/verifycheck/leads-api/internal/leads"
)

type noopNotifier struct{}

func (noopNotifier) NotifyLead(ctx context.Context, kind leads.Kind, lead *leads.Lead) error {
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	b2b := leads.NewInMemoryRepository(leads.KindB2B)
	b2c := leads.NewInMemoryRepository(leads.KindB2C)
	handler := leads.NewHandler(b2b, b2c, noopNotifier{}, nil, nil, 10*time.Second, 5*time.Second)
	return New(&Config{
		LeadsHandler:       handler,
		AdminToken:         "admin-secret",
		CORSAllowedOrigins: []string{"https://verifycheck.net"},
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestIntakeRouteAcceptsPost(t *testing.T) {
	r := newTestRouter(t)
	body := `{"name":"Jane Smith","phone":"555-0100","email":"jane@acmecorp.com"}`
	req := httptest.NewRequest(http.MethodPost, "/leads/b2b", strings.NewReader(body))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func TestIntakeRouteAnswersHead(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodHead, "/leads/b2c", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestUnsupportedMethodSetsAllowHeader(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPut, "/leads/b2b", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
	allow := rec.Header().Get("Allow")
	if !strings.Contains(allow, "POST") {
		t.Fatalf("expected Allow header listing POST, got %q", allow)
	}
}

func TestPreflightReturnsOK(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/leads/b2b", nil)
	req.Header.Set("Origin", "https://verifycheck.net")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty preflight body, got %q", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://verifycheck.net" {
		t.Fatalf("expected allow origin header, got %q", got)
	}
}

func TestPurgeRequiresBearerToken(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodDelete, "/admin/leads?kind=b2b", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestPurgeWithValidToken(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodDelete, "/admin/leads?kind=b2b", nil)
	req.Header.Set("Authorization", "Bearer admin-secret")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestListLeadsRoute(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/leads?kind=all", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestPreflightWithoutConfiguredOrigins(t *testing.T) {
	b2b := leads.NewInMemoryRepository(leads.KindB2B)
	b2c := leads.NewInMemoryRepository(leads.KindB2C)
	handler := leads.NewHandler(b2b, b2c, noopNotifier{}, nil, nil, 10*time.Second, 5*time.Second)
	r := New(&Config{LeadsHandler: handler, AdminToken: "admin-secret"})

	req := httptest.NewRequest(http.MethodOptions, "/leads/b2b", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty preflight body, got %q", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow origin header for unlisted origin, got %q", got)
	}
}
