package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newResendHandler(sender EmailSender) *Handler {
	svc := NewService(sender, "sales@verifycheck.net", nil)
	return NewHandler(svc, nil, 5*time.Second)
}

func TestHandleResendSuccess(t *testing.T) {
	sender := &recordingSender{}
	h := newResendHandler(sender)

	body := `{"kind":"b2b","lead":{"name":"Jane Smith","phone":"555-0100","email":"jane@acmecorp.com"}}`
	req := httptest.NewRequest(http.MethodPost, "/notifications/lead", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleResend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var resp resendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Message != "Email sent successfully" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("expected 1 message sent, got %d", len(sender.messages))
	}
	if !strings.Contains(sender.messages[0].Body, "Jane Smith") {
		t.Fatalf("expected body to carry lead name")
	}
}

func TestHandleResendMissingLead(t *testing.T) {
	h := newResendHandler(&recordingSender{})

	req := httptest.NewRequest(http.MethodPost, "/notifications/lead", strings.NewReader(`{"kind":"b2b"}`))
	rec := httptest.NewRecorder()

	h.HandleResend(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleResendInvalidKind(t *testing.T) {
	h := newResendHandler(&recordingSender{})

	body := `{"kind":"enterprise","lead":{"name":"Jane","phone":"555-0100"}}`
	req := httptest.NewRequest(http.MethodPost, "/notifications/lead", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleResend(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleResendSendFailure(t *testing.T) {
	h := newResendHandler(&recordingSender{err: errTransport})

	body := `{"kind":"b2c","lead":{"name":"Sam","phone":"555-0102"}}`
	req := httptest.NewRequest(http.MethodPost, "/notifications/lead", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleResend(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	var resp resendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
