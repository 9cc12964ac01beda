package leads

import (
	"strings"
	"time"
)

// Kind discriminates the two lead collections.
type Kind string

const (
	// KindB2B covers leads from the business-facing home page.
	KindB2B Kind = "b2b"
	// KindB2C covers leads from the employee-verification pages.
	KindB2C Kind = "b2c"
)

// ParseKind maps a query/body value to a Kind. "home" is accepted as a
// legacy alias for b2b.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b2b", "home":
		return KindB2B, true
	case "b2c":
		return KindB2C, true
	}
	return "", false
}

// Collection returns the MongoDB collection name for the kind.
func (k Kind) Collection() string {
	if k == KindB2C {
		return "b2c_leads"
	}
	return "home_leads"
}

// DefaultSource is the origin tag applied when a submission carries no
// explicit source.
func (k Kind) DefaultSource() string {
	if k == KindB2C {
		return "Employee Verification"
	}
	return "Home Page"
}

// TypeLabel is the stored categorization value ("B2B" / "B2C").
func (k Kind) TypeLabel() string {
	if k == KindB2C {
		return "B2C"
	}
	return "B2B"
}

// Lead is a captured prospect record. Leads are immutable after
// creation; CreatedAt is set once and never updated.
type Lead struct {
	ID          string         `json:"id,omitempty"`
	Kind        Kind           `json:"kind"`
	Name        string         `json:"name"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email,omitempty"`
	Company     string         `json:"company,omitempty"`
	Service     string         `json:"service,omitempty"`
	Source      string         `json:"source"`
	PagePath    string         `json:"pagePath,omitempty"`
	UTMSource   string         `json:"utm_source,omitempty"`
	UTMMedium   string         `json:"utm_medium,omitempty"`
	UTMCampaign string         `json:"utm_campaign,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// CreateLeadRequest is the request body for submitting a lead.
type CreateLeadRequest struct {
	Name        string         `json:"name"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email"`
	Company     string         `json:"company"`
	Service     string         `json:"service"`
	Source      string         `json:"source"`
	PagePath    string         `json:"pagePath"`
	UTMSource   string         `json:"utm_source"`
	UTMMedium   string         `json:"utm_medium"`
	UTMCampaign string         `json:"utm_campaign"`
	Meta        map[string]any `json:"meta"`
}

// Validate checks the required fields, naming every missing one.
func (r *CreateLeadRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Phone) == "" {
		missing = append(missing, "phone")
	}
	switch len(missing) {
	case 0:
		return nil
	case 1:
		return &ValidationError{Field: missing[0], Message: missing[0] + " is required"}
	default:
		return &ValidationError{Field: missing[0], Message: strings.Join(missing, " and ") + " are required"}
	}
}

// lead materializes the request as an unsaved Lead for the given kind.
// Repositories use it before assigning an ID; the intake handler uses
// it directly when persistence fails so notification still has the
// full record.
func (r *CreateLeadRequest) lead(kind Kind, createdAt time.Time) *Lead {
	source := strings.TrimSpace(r.Source)
	if source == "" {
		source = kind.DefaultSource()
	}
	return &Lead{
		Kind:        kind,
		Name:        r.Name,
		Phone:       r.Phone,
		Email:       r.Email,
		Company:     r.Company,
		Service:     r.Service,
		Source:      source,
		PagePath:    r.PagePath,
		UTMSource:   r.UTMSource,
		UTMMedium:   r.UTMMedium,
		UTMCampaign: r.UTMCampaign,
		Meta:        r.Meta,
		CreatedAt:   createdAt,
	}
}

// Unsaved builds the in-memory fallback record used when the store is
// unreachable.
func (r *CreateLeadRequest) Unsaved(kind Kind) *Lead {
	return r.lead(kind, time.Now().UTC())
}
