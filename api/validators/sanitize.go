package validators

import "strings"

// Sanitizer is implemented by request DTOs that normalize their free-text
// fields. DecodeJSONBody runs it after decoding and before validation.
type Sanitizer interface {
	Sanitize()
}

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
