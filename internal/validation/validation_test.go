package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.co.uk",
		"user+tag@example.io",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plain",
		"no-at.example.com",
		"two@@example.com",
		"spaces in@example.com",
		"noext@example",
		strings.Repeat("a", 250) + "@example.com",
	}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Jane Doe"))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("x", 61)))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("password123"))

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "pw1"},
		{"no digits", "passwordonly"},
		{"no letters", "1234567890"},
		{"too long", strings.Repeat("a1", 70)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidatePassword(tt.password))
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"example.com", "https://example.com"},
		{"http://example.com", "https://example.com"},
		{"HTTPS://Example.COM/Path/", "https://example.com/Path"},
		{"  example.com/about  ", "https://example.com/about"},
	}
	for _, tt := range tests {
		got, err := NormalizeURL(tt.in)
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := NormalizeURL("ht tp://bro ken")
	assert.Error(t, err)
}

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL", "Redis"}, ParseSkills([]string{"Go, SQL", " Redis "}))
	assert.Equal(t, []string{"Go"}, ParseSkills([]string{",,Go,,"}))
	assert.Nil(t, ParseSkills([]string{"", "  "}))
	assert.Nil(t, ParseSkills(nil))
}
