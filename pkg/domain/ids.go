// Package domain provides type-safe identifiers shared across registry modules.
package domain

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	dErrors "tourmint/pkg/domain-errors"
)

// MaxIdentityLength bounds principal strings accepted at trust boundaries.
const MaxIdentityLength = 128

// Distinct ID types - compiler prevents passing a CredentialID where an amount is expected.
type (
	// Identity is an opaque principal (issuer, holder, contract owner).
	Identity string
	// CredentialID is a dense positive integer assigned at mint, starting at 1.
	CredentialID uint64
	// EventID identifies an audit event.
	EventID uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs, config).

func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity cannot be empty")
	}
	if len(s) > MaxIdentityLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity is too long")
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity cannot contain whitespace")
	}
	return Identity(s), nil
}

// ParseCredentialID parses a decimal id. Zero is rejected since ids start at 1.
func ParseCredentialID(s string) (CredentialID, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "credential ID cannot be empty")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid credential ID format")
	}
	return CredentialID(n), nil
}

func NewEventID() EventID { return EventID(uuid.New()) }

// String methods - for logging and debugging.

func (id Identity) String() string     { return string(id) }
func (id CredentialID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id EventID) String() string      { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id Identity) IsNil() bool     { return id == "" }
func (id CredentialID) IsNil() bool { return id == 0 }
func (id EventID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
