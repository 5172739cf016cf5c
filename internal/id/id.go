// Package id mints identifiers for stored records.
//
// Users and notebooks get short prefixed NanoIDs ("usr-V1StGXR8_Z5jdHi6B-myT").
// Chat sessions and idempotency keys are UUIDs because clients echo them
// back verbatim and the original wire contract uses UUID strings.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Record prefixes.
const (
	PrefixUser     = "usr"
	PrefixNotebook = "nb"
)

// Generate creates a prefixed NanoID of the form prefix-nanoid.
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return v
}

// NewSessionID returns a random chat session id.
func NewSessionID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return u.String(), nil
}

// NewIdempotencyKey returns a random key for retry-safe creates.
func NewIdempotencyKey() string {
	return uuid.NewString()
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}
