package payroll

import (
	"crypto/subtle"
)

// Credential is the single shared secret that gates dataset replacement.
type Credential struct {
	secret string
}

// NewCredential wraps secret. An empty secret never matches.
func NewCredential(secret string) Credential {
	return Credential{secret: secret}
}

// Matches compares input against the secret in constant time.
func (c Credential) Matches(input string) bool {
	if c.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.secret), []byte(input)) == 1
}
