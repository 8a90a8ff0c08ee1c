// internal/app/system/normalize/normalize.go
//
// Package normalize holds small input canonicalization helpers used before
// anything is stored or compared. Emails are compared case-insensitively
// everywhere (login, signup, assignee resolution), so they are folded once
// on the way in.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Text trims surrounding whitespace from free-text input (titles,
// descriptions, comment bodies).
func Text(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role string.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
