// Package validation checks a mint request against the registry rules.
//
// Checks run in a fixed order and the first violation wins, so callers always
// see the same kind for the same input.
package validation

import (
	"context"
	"unicode/utf8"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
)

// IssuerGate answers whether a principal may mint.
type IssuerGate interface {
	IsAuthorizedIssuer(ctx context.Context, identity id.Identity) (bool, error)
}

// ValidateMintRequest returns nil when req may be minted by caller under settings.
// Rule violations are returned as a wrapped models.ErrorKind; a failing gate is
// returned as an internal error.
func ValidateMintRequest(ctx context.Context, caller id.Identity, req models.MintRequest, settings models.Settings, gate IssuerGate) error {
	if settings.Paused {
		return models.ErrPaused.AsDomainError()
	}

	authorized, err := gate.IsAuthorizedIssuer(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check issuer registry")
	}
	if !authorized {
		return models.ErrNotAuthorized.AsDomainError()
	}

	if kind, ok := checkFields(req, settings); !ok {
		return kind.AsDomainError()
	}
	return nil
}

// checkFields runs the pure field checks in order.
func checkFields(req models.MintRequest, settings models.Settings) (models.ErrorKind, bool) {
	titleLen := utf8.RuneCountInString(req.Title)
	switch {
	case titleLen == 0 || titleLen > models.MaxTitleLength:
		return models.ErrInvalidTitle, false
	case utf8.RuneCountInString(req.Description) > models.MaxDescriptionLength:
		return models.ErrInvalidDescription, false
	case len(req.ContentHash) != models.ContentHashLength:
		return models.ErrInvalidHash, false
	case !req.AccessTier.IsValid():
		return models.ErrInvalidTier, false
	case req.EditionLimit == 0 || req.EditionLimit > settings.MaxEditionLimit:
		return models.ErrInvalidEditionLimit, false
	case req.RoyaltyRate > models.MaxRoyaltyRate:
		return models.ErrInvalidRoyaltyRate, false
	case req.MetadataURI != nil && utf8.RuneCountInString(*req.MetadataURI) > models.MaxMetadataURILength:
		return models.ErrInvalidMetadataURI, false
	case len(req.Tags) > models.MaxTags:
		return models.ErrInvalidTags, false
	}
	return 0, true
}
