package main

import (
	"testing"

	appconfig "github.com/verifycheck/leads-api/internal/config"
	"github.com/verifycheck/leads-api/internal/notify"
	"github.com/verifycheck/leads-api/pkg/logging"
)

func TestBuildEmailSenderStubWhenUnconfigured(t *testing.T) {
	logger := logging.New("error")

	cfg := &appconfig.Config{EmailProvider: "smtp"}
	sender, err := buildEmailSender(cfg, logger)
	if err != nil {
		t.Fatalf("buildEmailSender: %v", err)
	}
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected stub fallback without SMTP_HOST, got %T", sender)
	}
}

func TestBuildEmailSenderSMTP(t *testing.T) {
	logger := logging.New("error")

	cfg := &appconfig.Config{
		EmailProvider: "smtp",
		SMTPHost:      "smtp.example.com",
		SMTPPort:      587,
		EmailFrom:     "no-reply@verifycheck.net",
	}
	sender, err := buildEmailSender(cfg, logger)
	if err != nil {
		t.Fatalf("buildEmailSender: %v", err)
	}
	if _, ok := sender.(*notify.SMTPSender); !ok {
		t.Fatalf("expected SMTP sender, got %T", sender)
	}
}

func TestBuildEmailSenderUnknownProvider(t *testing.T) {
	logger := logging.New("error")

	cfg := &appconfig.Config{EmailProvider: "carrier-pigeon"}
	if _, err := buildEmailSender(cfg, logger); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestEmailInfoReportsCredentialPresence(t *testing.T) {
	cfg := &appconfig.Config{
		EmailProvider:  "sendgrid",
		SendGridAPIKey: "SG.test",
		EmailFrom:      "no-reply@verifycheck.net",
		EmailTo:        "sales@verifycheck.net",
	}
	info := emailInfo(cfg)
	if !info.HasCredential {
		t.Errorf("expected credential reported present")
	}
	if info.Provider != "sendgrid" || info.Recipient != "sales@verifycheck.net" {
		t.Errorf("unexpected info: %+v", info)
	}
}
