package leads

import (
	"errors"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestCreateLeadEmitsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	notifier := &capturingNotifier{err: errors.New("smtp connect failed")}
	b2c := NewInMemoryRepository(KindB2C)
	handler := NewHandler(failingRepository{}, b2c, notifier, nil, nil, 0, 0)

	w := postLead(t, handler.CreateB2BLead, CreateLeadRequest{
		Name:  "Jane Smith",
		Phone: "+1 555 0100",
		Email: "jane@acmecorp.com",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	spans := recorder.Ended()
	var intake sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == "leads.intake" {
			intake = s
		}
	}
	if intake == nil {
		t.Fatalf("expected a leads.intake span, got %d spans", len(spans))
	}

	sawKind := false
	for _, attr := range intake.Attributes() {
		if attr.Key == "verifycheck.lead_kind" && attr.Value.AsString() == "b2b" {
			sawKind = true
		}
	}
	if !sawKind {
		t.Errorf("expected lead_kind attribute on intake span")
	}

	// Both the failed save and the failed notify are recorded.
	if len(intake.Events()) < 2 {
		t.Errorf("expected storage and notify errors recorded, got %d events", len(intake.Events()))
	}
}
