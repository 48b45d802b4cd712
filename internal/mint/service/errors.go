package service

import (
	"errors"

	"tourmint/internal/mint/models"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/platform/sentinel"
)

// translate makes sure everything leaving the service is a *dErrors.Error.
// Errors already translated inside the transaction pass through untouched.
func translate(err error, msg string) error {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	if kind, ok := models.KindOf(err); ok {
		return kind.AsDomainError()
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// translateStoreErr maps credential store sentinels to registry kinds.
func translateStoreErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrNotFound.AsDomainError()
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
