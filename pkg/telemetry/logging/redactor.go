package logging

import (
	"regexp"
	"strings"
)

// Redactor masks credentials in log output.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a Redactor for OpenAI-style API keys and bearer tokens.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []redactPattern{
			{
				regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
				replacement: "Bearer ***",
			},
			{
				regex:       regexp.MustCompile(`sk-[a-zA-Z0-9_\-]{4,}`),
				replacement: "sk-***",
			},
		},
	}
}

// RedactString masks credentials in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// IsSensitiveKey reports whether an attribute key names a credential.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range []string{"api_key", "apikey", "authorization", "secret", "password", "token"} {
		if strings.Contains(lower, s) && !strings.Contains(lower, "tokens") {
			return true
		}
	}
	return false
}

// RedactAPIKey redacts an API key, keeping only a short prefix.
func RedactAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "***"
	}
	return apiKey[:4] + "***"
}
