package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length caps applied before values reach the log
const (
	MaxPathLength          = 500
	MaxQueryLength         = 500
	MaxClientIPLength      = 64
	MaxErrorMessageLength  = 1000
	MaxGeneralStringLength = 2000
)

// SanitizePath prepares a URL path for logging
func SanitizePath(path string) string {
	return SanitizeString(path, MaxPathLength)
}

// SanitizeQuery prepares a raw query string for logging
func SanitizeQuery(query string) string {
	return SanitizeString(query, MaxQueryLength)
}

// SanitizeClientIP prepares a client address, which may come from headers, for logging
func SanitizeClientIP(ip string) string {
	return SanitizeString(ip, MaxClientIPLength)
}

// SanitizeError returns err's message prepared for logging, or "" for nil
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}

// SanitizeString repairs invalid UTF-8, drops control characters including line
// breaks, and truncates to maxLength bytes. A non-positive maxLength means
// MaxGeneralStringLength.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = MaxGeneralStringLength
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == '\t' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if len(s) > maxLength {
		s = strings.ToValidUTF8(s[:maxLength], "") + "..."
	}
	return s
}
