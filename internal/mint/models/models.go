package models

import (
	id "tourmint/pkg/domain"
)

// Field limits enforced by the validation pipeline. Lengths count Unicode code points.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	ContentHashLength    = 32
	MaxRoyaltyRate       = 20
	MaxMetadataURILength = 256
	MaxTags              = 10
)

// AccessTier gates what a credential holder can access on a tour.
type AccessTier string

const (
	TierBasic     AccessTier = "basic"
	TierPremium   AccessTier = "premium"
	TierExclusive AccessTier = "exclusive"
)

// IsValid reports whether the tier is one of the three known tiers. Matching is exact.
func (t AccessTier) IsValid() bool {
	switch t {
	case TierBasic, TierPremium, TierExclusive:
		return true
	default:
		return false
	}
}

func (t AccessTier) String() string { return string(t) }

// Credential is an immutable tour credential. EditionCount is always 1 today.
type Credential struct {
	ID             id.CredentialID
	Creator        id.Identity
	Title          string
	Description    string
	ContentHash    []byte
	AccessTier     AccessTier
	MintTime       uint64
	EditionLimit   uint64
	EditionCount   uint64
	RoyaltyRate    uint64
	IsTransferable bool
	MetadataURI    *string
	Tags           []string
}

// Clone returns a deep copy so stores never hand out shared slices.
func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}
	out := *c
	out.ContentHash = append([]byte(nil), c.ContentHash...)
	if c.MetadataURI != nil {
		uri := *c.MetadataURI
		out.MetadataURI = &uri
	}
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	return &out
}

// MintRequest carries the caller-supplied fields of a new credential.
// MetadataURI is nil when absent.
type MintRequest struct {
	Title          string
	Description    string
	ContentHash    []byte
	AccessTier     AccessTier
	EditionLimit   uint64
	RoyaltyRate    uint64
	IsTransferable bool
	MetadataURI    *string
	Tags           []string
}

// Settings is a point-in-time view of the registry configuration.
type Settings struct {
	ContractOwner   id.Identity
	MintFee         uint64
	MaxEditionLimit uint64
	Paused          bool
}

// RegistryView is the read-only summary served by queries.
type RegistryView struct {
	LastID          id.CredentialID
	ContractOwner   id.Identity
	MintFee         uint64
	MaxEditionLimit uint64
	Paused          bool
}
