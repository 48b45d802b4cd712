package models

import (
	"errors"

	dErrors "tourmint/pkg/domain-errors"
)

// ErrorKind is the closed set of registry failures. Values are stable wire codes.
type ErrorKind int

const (
	ErrNotAuthorized       ErrorKind = 100
	ErrInvalidHash         ErrorKind = 101
	ErrInvalidTier         ErrorKind = 102
	ErrInvalidTitle        ErrorKind = 103
	ErrInvalidDescription  ErrorKind = 104
	ErrInvalidEditionLimit ErrorKind = 105
	// ErrEditionLimitReached is reserved; nothing increments EditionCount past 1.
	ErrEditionLimitReached ErrorKind = 106
	ErrInvalidRoyaltyRate  ErrorKind = 107
	ErrPaused              ErrorKind = 108
	ErrInvalidMetadataURI  ErrorKind = 109
	ErrInvalidTags         ErrorKind = 110
	ErrNotFound            ErrorKind = 111
	ErrNotOwner            ErrorKind = 112
	ErrTransferNotAllowed  ErrorKind = 113
	ErrInvalidFee          ErrorKind = 114
	ErrInsufficientBalance ErrorKind = 115
)

type kindInfo struct {
	name     string
	message  string
	category dErrors.Code
}

var kinds = map[ErrorKind]kindInfo{
	ErrNotAuthorized:       {"NotAuthorized", "caller is not authorized", dErrors.CodeForbidden},
	ErrInvalidHash:         {"InvalidHash", "content hash must be exactly 32 bytes", dErrors.CodeValidation},
	ErrInvalidTier:         {"InvalidTier", "access tier must be basic, premium or exclusive", dErrors.CodeValidation},
	ErrInvalidTitle:        {"InvalidTitle", "title must be 1 to 100 characters", dErrors.CodeValidation},
	ErrInvalidDescription:  {"InvalidDescription", "description must be at most 500 characters", dErrors.CodeValidation},
	ErrInvalidEditionLimit: {"InvalidEditionLimit", "edition limit is out of range", dErrors.CodeValidation},
	ErrEditionLimitReached: {"EditionLimitReached", "edition limit reached", dErrors.CodeConflict},
	ErrInvalidRoyaltyRate:  {"InvalidRoyaltyRate", "royalty rate must be at most 20", dErrors.CodeValidation},
	ErrPaused:              {"Paused", "minting is paused", dErrors.CodeConflict},
	ErrInvalidMetadataURI:  {"InvalidMetadataUri", "metadata uri must be at most 256 characters", dErrors.CodeValidation},
	ErrInvalidTags:         {"InvalidTags", "at most 10 tags are allowed", dErrors.CodeValidation},
	ErrNotFound:            {"NotFound", "credential not found", dErrors.CodeNotFound},
	ErrNotOwner:            {"NotOwner", "caller does not own the credential", dErrors.CodeForbidden},
	ErrTransferNotAllowed:  {"TransferNotAllowed", "credential is not transferable", dErrors.CodeForbidden},
	ErrInvalidFee:          {"InvalidFee", "mint fee must be greater than zero", dErrors.CodeValidation},
	ErrInsufficientBalance: {"InsufficientBalance", "insufficient balance for mint fee", dErrors.CodePaymentRequired},
}

func (k ErrorKind) Error() string {
	if info, ok := kinds[k]; ok {
		return info.message
	}
	return "unknown registry error"
}

// ErrorCode returns the stable numeric code.
func (k ErrorKind) ErrorCode() int { return int(k) }

// KindName returns the kind's name, e.g. "NotOwner".
func (k ErrorKind) KindName() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "Unknown"
}

// Category is the transport-agnostic error class the kind is reported under.
func (k ErrorKind) Category() dErrors.Code {
	if info, ok := kinds[k]; ok {
		return info.category
	}
	return dErrors.CodeInternal
}

// AsDomainError wraps the kind in a domain error so both errors.Is(err, kind) and
// dErrors.HasCode(err, kind.Category()) hold.
func (k ErrorKind) AsDomainError() error {
	return &dErrors.Error{Code: k.Category(), Message: k.Error(), Err: k}
}

// KindOf extracts the registry error kind from an error chain.
func KindOf(err error) (ErrorKind, bool) {
	var kind ErrorKind
	if errors.As(err, &kind) {
		return kind, true
	}
	return 0, false
}
