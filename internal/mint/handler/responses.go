package handler

import (
	"encoding/hex"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
	"tourmint/pkg/platform/audit"
)

type MintResponse struct {
	CredentialID id.CredentialID `json:"credential_id"`
}

type CredentialResponse struct {
	ID             id.CredentialID `json:"id"`
	Creator        id.Identity     `json:"creator"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ContentHash    string          `json:"content_hash"`
	AccessTier     string          `json:"access_tier"`
	MintTime       uint64          `json:"mint_time"`
	EditionLimit   uint64          `json:"edition_limit"`
	EditionCount   uint64          `json:"edition_count"`
	RoyaltyRate    uint64          `json:"royalty_rate"`
	IsTransferable bool            `json:"is_transferable"`
	MetadataURI    *string         `json:"metadata_uri"`
	Tags           []string        `json:"tags"`
}

type OwnerResponse struct {
	CredentialID id.CredentialID `json:"credential_id"`
	Owner        id.Identity     `json:"owner"`
}

type TransferResponse struct {
	CredentialID id.CredentialID `json:"credential_id"`
	Owner        id.Identity     `json:"owner"`
}

type RegistryResponse struct {
	LastID          id.CredentialID `json:"last_id"`
	ContractOwner   id.Identity     `json:"contract_owner"`
	MintFee         uint64          `json:"mint_fee"`
	MaxEditionLimit uint64          `json:"max_edition_limit"`
	Paused          bool            `json:"paused"`
}

type AuditEventsResponse struct {
	Events []audit.Event `json:"events"`
}

func toCredentialResponse(c *models.Credential) *CredentialResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return &CredentialResponse{
		ID:             c.ID,
		Creator:        c.Creator,
		Title:          c.Title,
		Description:    c.Description,
		ContentHash:    "0x" + hex.EncodeToString(c.ContentHash),
		AccessTier:     c.AccessTier.String(),
		MintTime:       c.MintTime,
		EditionLimit:   c.EditionLimit,
		EditionCount:   c.EditionCount,
		RoyaltyRate:    c.RoyaltyRate,
		IsTransferable: c.IsTransferable,
		MetadataURI:    c.MetadataURI,
		Tags:           tags,
	}
}

func toRegistryResponse(v models.RegistryView) *RegistryResponse {
	return &RegistryResponse{
		LastID:          v.LastID,
		ContractOwner:   v.ContractOwner,
		MintFee:         v.MintFee,
		MaxEditionLimit: v.MaxEditionLimit,
		Paused:          v.Paused,
	}
}
