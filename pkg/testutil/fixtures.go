package testutil

import (
	"bytes"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
)

// TestIdentities provides the principals used across registry tests.
var TestIdentities = struct {
	Owner     id.Identity
	Issuer    id.Identity
	Issuer2   id.Identity
	Holder    id.Identity
	Stranger  id.Identity
	Recipient id.Identity
}{
	Owner:     "ST1TEST",
	Issuer:    "ST1MUSEUM",
	Issuer2:   "ST1GALLERY",
	Holder:    "ST1HOLDER",
	Stranger:  "ST1STRANGER",
	Recipient: "ST1RECIPIENT",
}

// ContentHash returns a valid 32-byte content hash filled with b.
func ContentHash(b byte) []byte {
	return bytes.Repeat([]byte{b}, models.ContentHashLength)
}

// MintRequestBuilder provides a fluent interface for building mint requests.
type MintRequestBuilder struct {
	req models.MintRequest
}

// NewMintRequestBuilder creates a builder with a request that passes every check
// under the default settings.
func NewMintRequestBuilder() *MintRequestBuilder {
	return &MintRequestBuilder{
		req: models.MintRequest{
			Title:          "Old Town Walking Tour",
			Description:    "Two hour guided walk through the historic centre",
			ContentHash:    ContentHash(0xab),
			AccessTier:     models.TierBasic,
			EditionLimit:   10,
			RoyaltyRate:    5,
			IsTransferable: true,
			Tags:           []string{"walking", "history"},
		},
	}
}

func (b *MintRequestBuilder) WithTitle(title string) *MintRequestBuilder {
	b.req.Title = title
	return b
}

func (b *MintRequestBuilder) WithDescription(description string) *MintRequestBuilder {
	b.req.Description = description
	return b
}

func (b *MintRequestBuilder) WithContentHash(hash []byte) *MintRequestBuilder {
	b.req.ContentHash = hash
	return b
}

func (b *MintRequestBuilder) WithTier(tier models.AccessTier) *MintRequestBuilder {
	b.req.AccessTier = tier
	return b
}

func (b *MintRequestBuilder) WithEditionLimit(limit uint64) *MintRequestBuilder {
	b.req.EditionLimit = limit
	return b
}

func (b *MintRequestBuilder) WithRoyaltyRate(rate uint64) *MintRequestBuilder {
	b.req.RoyaltyRate = rate
	return b
}

func (b *MintRequestBuilder) Transferable(transferable bool) *MintRequestBuilder {
	b.req.IsTransferable = transferable
	return b
}

func (b *MintRequestBuilder) WithMetadataURI(uri string) *MintRequestBuilder {
	b.req.MetadataURI = &uri
	return b
}

func (b *MintRequestBuilder) WithTags(tags ...string) *MintRequestBuilder {
	b.req.Tags = tags
	return b
}

func (b *MintRequestBuilder) Build() models.MintRequest {
	return b.req
}

// DefaultSettings returns the registry settings most tests start from.
func DefaultSettings() models.Settings {
	return models.Settings{
		ContractOwner:   TestIdentities.Owner,
		MintFee:         1000,
		MaxEditionLimit: 100,
	}
}
