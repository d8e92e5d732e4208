package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Email returns a field holding a masked form of email, keeping the first
// character of the local part and the whole domain ("j***@example.com").
// Addresses are personal data and never reach the logs in clear.
func Email(key, email string) zap.Field {
	return zap.String(key, MaskEmail(email))
}

// MaskEmail masks the local part of email. Values without an "@" are masked entirely.
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		if email == "" {
			return ""
		}

		return "***"
	}

	local := []rune(email[:at])

	return string(local[0]) + "***" + email[at:]
}
