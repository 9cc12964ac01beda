package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/verifycheck/leads-api/internal/leads"
	"github.com/verifycheck/leads-api/pkg/logging"
)

// NotifyError reports a failed notification attempt: transport
// failure, provider rejection, or missing configuration.
type NotifyError struct {
	Reason string
	Err    error
}

func (e *NotifyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notify: %s: %v", e.Reason, e.Err)
	}
	return "notify: " + e.Reason
}

func (e *NotifyError) Unwrap() error { return e.Err }

// Service renders lead-capture alerts and dispatches them through the
// configured transport. At most one send attempt per call; the caller
// bounds it with a context deadline.
type Service struct {
	sender    EmailSender
	recipient string
	logger    *logging.Logger
}

// NewService creates a notification service delivering to the default
// recipient address.
func NewService(sender EmailSender, recipient string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:    sender,
		recipient: recipient,
		logger:    logger,
	}
}

// kindLabel names the lead flow in subjects and headings.
func kindLabel(kind leads.Kind) string {
	if kind == leads.KindB2C {
		return "Employee Verification"
	}
	return "B2B Profile Verification"
}

// NotifyLead sends the alert for a newly captured lead. The rendered
// content is transport-independent.
func (s *Service) NotifyLead(ctx context.Context, kind leads.Kind, lead *leads.Lead) error {
	if s.sender == nil {
		return &NotifyError{Reason: "no email transport configured"}
	}
	if s.recipient == "" {
		return &NotifyError{Reason: "no notification recipient configured"}
	}

	subject := fmt.Sprintf("New %s Lead", kindLabel(kind))
	msg := EmailMessage{
		To:      s.recipient,
		Subject: subject,
		Body:    renderText(kind, lead),
		HTML:    renderHTML(kind, lead),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return &NotifyError{Reason: "send failed", Err: err}
	}

	s.logger.Info("lead notification sent", "kind", kind, "lead_id", lead.ID, "to", s.recipient)
	return nil
}

type leadRow struct {
	label string
	value string
}

// leadRows lists the fixed attribute set rendered into every
// notification, in display order. Empty values render as "-".
func leadRows(lead *leads.Lead) []leadRow {
	return []leadRow{
		{"name", lead.Name},
		{"company", lead.Company},
		{"email", lead.Email},
		{"phone", lead.Phone},
		{"service", lead.Service},
		{"source", lead.Source},
		{"pagePath", lead.PagePath},
		{"utm_source", lead.UTMSource},
		{"utm_medium", lead.UTMMedium},
		{"utm_campaign", lead.UTMCampaign},
	}
}

func captureTime(lead *leads.Lead) time.Time {
	if !lead.CreatedAt.IsZero() {
		return lead.CreatedAt
	}
	return time.Now().UTC()
}

func renderText(kind leads.Kind, lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New %s Lead\n\n", kindLabel(kind))
	for _, row := range leadRows(lead) {
		value := row.value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%s: %s\n", row.label, value)
	}
	fmt.Fprintf(&b, "time: %s\n", captureTime(lead).Format("January 2, 2006 at 3:04 PM MST"))
	if lead.ID != "" {
		fmt.Fprintf(&b, "lead id: %s\n", lead.ID)
	}
	return b.String()
}

func renderHTML(kind leads.Kind, lead *leads.Lead) string {
	var rows strings.Builder
	for _, row := range leadRows(lead) {
		value := row.value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&rows, `<div class="row"><span class="label">%s:</span> %s</div>`,
			html.EscapeString(row.label), html.EscapeString(value))
	}
	fmt.Fprintf(&rows, `<div class="row"><span class="label">Time:</span> %s</div>`,
		captureTime(lead).Format("January 2, 2006 at 3:04 PM MST"))
	if lead.ID != "" {
		fmt.Fprintf(&rows, `<div class="row"><span class="label">Lead ID:</span> <code>%s</code></div>`,
			html.EscapeString(lead.ID))
	}

	return fmt.Sprintf(`<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 640px; margin: 0 auto; padding: 20px; }
.header { background-color: #f4f4f4; padding: 16px; border-radius: 6px; }
.grid { margin-top: 16px; }
.row { margin-bottom: 8px; }
.label { font-weight: 600; color: #555; display: inline-block; width: 140px; }
code { background: #f6f8fa; padding: 2px 4px; border-radius: 4px; }
</style>
</head>
<body>
<div class="container">
<div class="header"><h2>New %s Lead</h2></div>
<div class="grid">%s</div>
</div>
</body>
</html>`, html.EscapeString(kindLabel(kind)), rows.String())
}

var _ leads.Notifier = (*Service)(nil)
