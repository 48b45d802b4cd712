package handler

import (
	"encoding/hex"
	"strings"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/platform/validation"
)

// HTTP request DTOs. Domain rules are left to the mint validation pipeline so
// they surface as registry error kinds; these only check the wire shape.

type MintCredentialRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ContentHash    string   `json:"content_hash"`
	AccessTier     string   `json:"access_tier"`
	EditionLimit   uint64   `json:"edition_limit"`
	RoyaltyRate    uint64   `json:"royalty_rate"`
	IsTransferable bool     `json:"is_transferable"`
	MetadataURI    *string  `json:"metadata_uri"`
	Tags           []string `json:"tags"`
}

// Normalize strips an optional 0x prefix from the content hash.
func (r *MintCredentialRequest) Normalize() {
	if r == nil {
		return
	}
	r.ContentHash = strings.TrimSpace(r.ContentHash)
	if strings.HasPrefix(r.ContentHash, "0x") || strings.HasPrefix(r.ContentHash, "0X") {
		r.ContentHash = r.ContentHash[2:]
	}
}

func (r *MintCredentialRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.CheckSliceCount("tags", len(r.Tags), validation.MaxTagEntries); err != nil {
		return err
	}
	if err := validation.CheckEachStringLength("tag", r.Tags, validation.MaxTagLength); err != nil {
		return err
	}
	return validation.Struct(r)
}

// ToModel converts the DTO into a mint request. A content hash that is not
// hex decodes to nil, which the mint pipeline reports as InvalidHash after
// the paused and authorization checks.
func (r *MintCredentialRequest) ToModel() models.MintRequest {
	hash, err := hex.DecodeString(r.ContentHash)
	if err != nil {
		hash = nil
	}
	return models.MintRequest{
		Title:          r.Title,
		Description:    r.Description,
		ContentHash:    hash,
		AccessTier:     models.AccessTier(r.AccessTier),
		EditionLimit:   r.EditionLimit,
		RoyaltyRate:    r.RoyaltyRate,
		IsTransferable: r.IsTransferable,
		MetadataURI:    r.MetadataURI,
		Tags:           r.Tags,
	}
}

type TransferCredentialRequest struct {
	Recipient string `json:"recipient" validate:"required,notblank"`
}

func (r *TransferCredentialRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	_, err := id.ParseIdentity(r.Recipient)
	return err
}

type SetPausedRequest struct {
	Paused *bool `json:"paused" validate:"required"`
}

func (r *SetPausedRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Struct(r)
}

// SetMintFeeRequest carries the new fee. Zero is passed through so the admin
// service reports InvalidFee.
type SetMintFeeRequest struct {
	MintFee *uint64 `json:"mint_fee" validate:"required"`
}

func (r *SetMintFeeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Struct(r)
}

type SetMaxEditionLimitRequest struct {
	MaxEditionLimit *uint64 `json:"max_edition_limit" validate:"required"`
}

func (r *SetMaxEditionLimitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Struct(r)
}
