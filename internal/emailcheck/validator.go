// Package emailcheck classifies email addresses for lead intake.
// B2B leads must supply a business-grade address; known free and
// disposable providers are rejected.
package emailcheck

import (
	"sort"
	"strings"
)

// freeEmailDomains is the curated deny-list of free, consumer, and
// disposable email providers rejected for business inquiries.
var freeEmailDomains = map[string]struct{}{
	// Google
	"gmail.com":      {},
	"googlemail.com": {},

	// Microsoft
	"hotmail.com":    {},
	"outlook.com":    {},
	"live.com":       {},
	"msn.com":        {},
	"hotmail.co.uk":  {},
	"outlook.co.uk":  {},
	"live.co.uk":     {},

	// Yahoo
	"yahoo.com":      {},
	"yahoo.co.uk":    {},
	"yahoo.in":       {},
	"yahoo.co.in":    {},
	"ymail.com":      {},
	"rocketmail.com": {},

	// Apple
	"icloud.com": {},
	"me.com":     {},
	"mac.com":    {},

	// Other popular free providers
	"aol.com":        {},
	"protonmail.com": {},
	"proton.me":      {},
	"tutanota.com":   {},
	"zoho.com":       {},
	"mail.com":       {},
	"gmx.com":        {},
	"fastmail.com":   {},
	"yandex.com":     {},
	"mail.ru":        {},

	// Indian free email providers
	"rediffmail.com": {},
	"sify.com":       {},
	"in.com":         {},
	"indiatimes.com": {},

	// Temporary/disposable email domains
	"10minutemail.com": {},
	"tempmail.org":     {},
	"guerrillamail.com": {},
	"mailinator.com":   {},
	"throwaway.email":  {},
	"temp-mail.org":    {},
	"getnada.com":      {},
	"maildrop.cc":      {},
}

// BusinessResult is the outcome of validating a business email.
type BusinessResult struct {
	Valid    bool
	Business bool
	Message  string
}

// Result is the outcome of validating a consumer email.
type Result struct {
	Valid   bool
	Message string
}

// ValidateBusinessEmail checks that an address is well-formed and not
// hosted by a free or disposable provider.
func ValidateBusinessEmail(email string) BusinessResult {
	if email == "" {
		return BusinessResult{Message: "Email is required"}
	}

	if !wellFormed(email) {
		return BusinessResult{Message: "Invalid email format"}
	}

	domain := domainOf(email)
	if domain == "" {
		return BusinessResult{Message: "Invalid email domain"}
	}

	if _, ok := freeEmailDomains[domain]; ok {
		return BusinessResult{
			Valid:   true,
			Message: "Business email required. Free email domains (Gmail, Yahoo, Hotmail, etc.) are not accepted for business inquiries.",
		}
	}

	if strings.Contains(domain, "temp") || strings.Contains(domain, "disposable") || strings.Contains(domain, "fake") {
		return BusinessResult{
			Valid:   true,
			Message: "Temporary or disposable email addresses are not accepted.",
		}
	}

	return BusinessResult{Valid: true, Business: true}
}

// ValidateConsumerEmail only checks the address shape; any well-formed
// address is accepted for B2C leads.
func ValidateConsumerEmail(email string) Result {
	if email == "" {
		return Result{Message: "Email is required"}
	}
	if !wellFormed(email) {
		return Result{Message: "Invalid email format"}
	}
	return Result{Valid: true}
}

// IsFreeEmailDomain reports whether a domain belongs to the deny-list.
func IsFreeEmailDomain(domain string) bool {
	_, ok := freeEmailDomains[strings.ToLower(domain)]
	return ok
}

// FreeEmailDomainList returns the deny-listed domains in sorted order.
func FreeEmailDomainList() []string {
	out := make([]string, 0, len(freeEmailDomains))
	for d := range freeEmailDomains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// wellFormed enforces the local@domain.tld shape: no whitespace, one
// local and one domain part, and at least one dot after the @.
func wellFormed(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return true
}

// domainOf returns the lowercased domain part of a well-formed address.
func domainOf(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
