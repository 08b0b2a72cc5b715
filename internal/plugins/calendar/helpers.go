package calendar

import (
	"strings"
)

// humanize turns an enum constant like "IN_PROGRESS" into "In Progress".
func humanize(s string) string {
	words := strings.Split(strings.ToLower(s), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// strPtr returns a pointer to s, or nil for the empty string.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// orEmpty returns s, or a pointer to "" when s is nil.
func orEmpty(s *string) *string {
	if s == nil {
		empty := ""
		return &empty
	}
	return s
}
