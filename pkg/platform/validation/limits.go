package validation

import (
	"fmt"

	dErrors "tourmint/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	MaxBodySize = 64 * 1024
)

// Transport guards. Domain rules (title, description, tag count) are enforced by
// the mint validation pipeline so they report registry error kinds; these only
// bound what a single request may carry.
const (
	// MaxContentHashHexLength bounds the hex-encoded content hash field.
	MaxContentHashHexLength = 512

	// MaxTagEntries bounds the tags array before domain validation sees it.
	MaxTagEntries = 256

	// MaxTagLength is the maximum length of a single tag string.
	MaxTagLength = 1024
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length in bytes.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckEachStringLength validates that each string in a slice does not exceed the maximum length.
func CheckEachStringLength(fieldName string, values []string, max int) error {
	for _, v := range values {
		if len(v) > max {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
		}
	}
	return nil
}
