package emailcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBusinessEmail_Business(t *testing.T) {
	tests := []string{
		"jane@acmecorp.com",
		"ceo@example.co.in",
		"Ops@Widgets.IO",
	}
	for _, email := range tests {
		t.Run(email, func(t *testing.T) {
			res := ValidateBusinessEmail(email)
			assert.True(t, res.Valid)
			assert.True(t, res.Business)
			assert.Empty(t, res.Message)
		})
	}
}

func TestValidateBusinessEmail_FreeProviders(t *testing.T) {
	tests := []string{
		"ceo@gmail.com",
		"someone@YAHOO.com",
		"user@hotmail.co.uk",
		"trash@mailinator.com",
		"ru@mail.ru",
	}
	for _, email := range tests {
		t.Run(email, func(t *testing.T) {
			res := ValidateBusinessEmail(email)
			assert.True(t, res.Valid, "free-provider addresses are well-formed")
			assert.False(t, res.Business)
			assert.Contains(t, res.Message, "not accepted")
		})
	}
}

func TestValidateBusinessEmail_SuspiciousDomains(t *testing.T) {
	tests := []string{
		"a@tempbox.example.com",
		"b@disposable-inbox.net",
		"c@fakemail.example.org",
	}
	for _, email := range tests {
		t.Run(email, func(t *testing.T) {
			res := ValidateBusinessEmail(email)
			assert.True(t, res.Valid)
			assert.False(t, res.Business)
			assert.Equal(t, "Temporary or disposable email addresses are not accepted.", res.Message)
		})
	}
}

func TestValidateBusinessEmail_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"empty", ""},
		{"no at", "not-an-email"},
		{"no domain dot", "user@localhost"},
		{"trailing dot", "user@example."},
		{"leading at", "@example.com"},
		{"whitespace", "user name@example.com"},
		{"trailing at", "user@"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateBusinessEmail(tt.email)
			assert.False(t, res.Valid)
			assert.False(t, res.Business)
			assert.NotEmpty(t, res.Message)
		})
	}
}

func TestValidateConsumerEmail(t *testing.T) {
	assert.True(t, ValidateConsumerEmail("ceo@gmail.com").Valid, "free providers are fine for B2C")
	assert.True(t, ValidateConsumerEmail("jane@acmecorp.com").Valid)
	assert.False(t, ValidateConsumerEmail("").Valid)
	assert.False(t, ValidateConsumerEmail("nope").Valid)
}

func TestIsFreeEmailDomain(t *testing.T) {
	assert.True(t, IsFreeEmailDomain("gmail.com"))
	assert.True(t, IsFreeEmailDomain("GMail.com"))
	assert.False(t, IsFreeEmailDomain("acmecorp.com"))
}

func TestFreeEmailDomainList(t *testing.T) {
	list := FreeEmailDomainList()
	assert.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1], list[i], "list must be sorted")
	}
	assert.Contains(t, list, "gmail.com")
}
