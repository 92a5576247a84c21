package nudge

import "strings"

// CredentialSentinel is the placeholder value left in place when no API key
// was configured.
const CredentialSentinel = "GEMINI_API_KEY"

// minCredentialLength is the length a key must exceed to be plausible.
const minCredentialLength = 10

// Credential is the static API key, resolved once at startup.
// The zero value is an unset credential.
type Credential struct {
	value string
	set   bool
}

// ResolveCredential turns a raw configured value into a Credential.
// Empty values, the sentinel, and implausibly short keys resolve to an
// unset credential.
func ResolveCredential(raw string) Credential {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == CredentialSentinel || len(raw) <= minCredentialLength {
		return Credential{}
	}
	return Credential{value: raw, set: true}
}

// Value returns the key and whether it is usable.
func (c Credential) Value() (string, bool) {
	return c.value, c.set
}

// Valid reports whether the credential can authorize a request.
func (c Credential) Valid() bool {
	return c.set
}

// String masks the key for logs.
func (c Credential) String() string {
	if !c.set {
		return "<unset>"
	}
	return c.value[:4] + strings.Repeat("*", 8)
}
