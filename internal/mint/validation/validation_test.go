package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
)

type stubGate struct {
	members map[id.Identity]bool
	err     error
	calls   int
}

func (g *stubGate) IsAuthorizedIssuer(_ context.Context, identity id.Identity) (bool, error) {
	g.calls++
	if g.err != nil {
		return false, g.err
	}
	return g.members[identity], nil
}

const issuer = id.Identity("ST1MUSEUM")

func validRequest() models.MintRequest {
	uri := "uri"
	return models.MintRequest{
		Title:          "Tour1",
		Description:    "Desc",
		ContentHash:    make([]byte, 32),
		AccessTier:     models.TierBasic,
		EditionLimit:   10,
		RoyaltyRate:    5,
		IsTransferable: true,
		MetadataURI:    &uri,
		Tags:           []string{"tag1"},
	}
}

func defaultSettings() models.Settings {
	return models.Settings{
		ContractOwner:   "ST1TEST",
		MintFee:         1000,
		MaxEditionLimit: 100,
	}
}

func newGate() *stubGate {
	return &stubGate{members: map[id.Identity]bool{issuer: true}}
}

func ptr(s string) *string { return &s }

func TestValidateMintRequest_Valid(t *testing.T) {
	require.NoError(t, ValidateMintRequest(context.Background(), issuer, validRequest(), defaultSettings(), newGate()))

	absentURI := validRequest()
	absentURI.MetadataURI = nil
	require.NoError(t, ValidateMintRequest(context.Background(), issuer, absentURI, defaultSettings(), newGate()))
}

func TestValidateMintRequest_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.MintRequest)
		want   models.ErrorKind
	}{
		{"empty title", func(r *models.MintRequest) { r.Title = "" }, models.ErrInvalidTitle},
		{"title over 100 chars", func(r *models.MintRequest) { r.Title = strings.Repeat("a", 101) }, models.ErrInvalidTitle},
		{"description over 500 chars", func(r *models.MintRequest) { r.Description = strings.Repeat("d", 501) }, models.ErrInvalidDescription},
		{"hash too short", func(r *models.MintRequest) { r.ContentHash = make([]byte, 31) }, models.ErrInvalidHash},
		{"hash too long", func(r *models.MintRequest) { r.ContentHash = make([]byte, 33) }, models.ErrInvalidHash},
		{"hash missing", func(r *models.MintRequest) { r.ContentHash = nil }, models.ErrInvalidHash},
		{"unknown tier", func(r *models.MintRequest) { r.AccessTier = "gold" }, models.ErrInvalidTier},
		{"tier with different case", func(r *models.MintRequest) { r.AccessTier = "Premium" }, models.ErrInvalidTier},
		{"zero edition limit", func(r *models.MintRequest) { r.EditionLimit = 0 }, models.ErrInvalidEditionLimit},
		{"edition limit above max", func(r *models.MintRequest) { r.EditionLimit = 101 }, models.ErrInvalidEditionLimit},
		{"royalty above 20", func(r *models.MintRequest) { r.RoyaltyRate = 21 }, models.ErrInvalidRoyaltyRate},
		{"metadata uri over 256 chars", func(r *models.MintRequest) { r.MetadataURI = ptr(strings.Repeat("u", 257)) }, models.ErrInvalidMetadataURI},
		{"eleven tags", func(r *models.MintRequest) { r.Tags = make([]string, 11) }, models.ErrInvalidTags},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := ValidateMintRequest(context.Background(), issuer, req, defaultSettings(), newGate())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, dErrors.HasCode(err, tt.want.Category()))
		})
	}
}

func TestValidateMintRequest_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.MintRequest)
	}{
		{"title of 100 chars", func(r *models.MintRequest) { r.Title = strings.Repeat("a", 100) }},
		{"title of 100 multibyte chars", func(r *models.MintRequest) { r.Title = strings.Repeat("é", 100) }},
		{"description of 500 chars", func(r *models.MintRequest) { r.Description = strings.Repeat("d", 500) }},
		{"empty description", func(r *models.MintRequest) { r.Description = "" }},
		{"edition limit equal to max", func(r *models.MintRequest) { r.EditionLimit = 100 }},
		{"royalty of 20", func(r *models.MintRequest) { r.RoyaltyRate = 20 }},
		{"royalty of 0", func(r *models.MintRequest) { r.RoyaltyRate = 0 }},
		{"metadata uri of 256 chars", func(r *models.MintRequest) { r.MetadataURI = ptr(strings.Repeat("u", 256)) }},
		{"empty metadata uri", func(r *models.MintRequest) { r.MetadataURI = ptr("") }},
		{"ten tags", func(r *models.MintRequest) { r.Tags = make([]string, 10) }},
		{"no tags", func(r *models.MintRequest) { r.Tags = nil }},
		{"premium tier", func(r *models.MintRequest) { r.AccessTier = models.TierPremium }},
		{"exclusive tier", func(r *models.MintRequest) { r.AccessTier = models.TierExclusive }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			assert.NoError(t, ValidateMintRequest(context.Background(), issuer, req, defaultSettings(), newGate()))
		})
	}
}

func TestValidateMintRequest_Order(t *testing.T) {
	ctx := context.Background()
	everythingWrong := models.MintRequest{
		Title:        "",
		Description:  strings.Repeat("d", 501),
		ContentHash:  []byte{1},
		AccessTier:   "gold",
		EditionLimit: 0,
		RoyaltyRate:  99,
		MetadataURI:  ptr(strings.Repeat("u", 300)),
		Tags:         make([]string, 20),
	}

	t.Run("paused wins over everything", func(t *testing.T) {
		settings := defaultSettings()
		settings.Paused = true
		gate := newGate()

		err := ValidateMintRequest(ctx, "ST1STRANGER", everythingWrong, settings, gate)
		assert.True(t, errors.Is(err, models.ErrPaused))
		assert.Zero(t, gate.calls, "gate must not be consulted while paused")
	})

	t.Run("authorization precedes field checks", func(t *testing.T) {
		err := ValidateMintRequest(ctx, "ST1STRANGER", everythingWrong, defaultSettings(), newGate())
		assert.True(t, errors.Is(err, models.ErrNotAuthorized))
	})

	t.Run("field checks follow the fixed order", func(t *testing.T) {
		req := everythingWrong
		order := []struct {
			want models.ErrorKind
			fix  func(r *models.MintRequest)
		}{
			{models.ErrInvalidTitle, func(r *models.MintRequest) { r.Title = "Tour" }},
			{models.ErrInvalidDescription, func(r *models.MintRequest) { r.Description = "" }},
			{models.ErrInvalidHash, func(r *models.MintRequest) { r.ContentHash = make([]byte, 32) }},
			{models.ErrInvalidTier, func(r *models.MintRequest) { r.AccessTier = models.TierBasic }},
			{models.ErrInvalidEditionLimit, func(r *models.MintRequest) { r.EditionLimit = 1 }},
			{models.ErrInvalidRoyaltyRate, func(r *models.MintRequest) { r.RoyaltyRate = 0 }},
			{models.ErrInvalidMetadataURI, func(r *models.MintRequest) { r.MetadataURI = nil }},
			{models.ErrInvalidTags, func(r *models.MintRequest) { r.Tags = nil }},
		}
		for _, step := range order {
			err := ValidateMintRequest(ctx, issuer, req, defaultSettings(), newGate())
			require.True(t, errors.Is(err, step.want), "want %s, got %v", step.want.KindName(), err)
			step.fix(&req)
		}
		assert.NoError(t, ValidateMintRequest(ctx, issuer, req, defaultSettings(), newGate()))
	})
}

func TestValidateMintRequest_EditionCapFollowsSettings(t *testing.T) {
	req := validRequest()
	req.EditionLimit = 50

	settings := defaultSettings()
	settings.MaxEditionLimit = 49
	err := ValidateMintRequest(context.Background(), issuer, req, settings, newGate())
	assert.True(t, errors.Is(err, models.ErrInvalidEditionLimit))

	settings.MaxEditionLimit = 50
	assert.NoError(t, ValidateMintRequest(context.Background(), issuer, req, settings, newGate()))
}

func TestValidateMintRequest_GateFailureIsInternal(t *testing.T) {
	gate := &stubGate{err: errors.New("redis: connection refused")}

	err := ValidateMintRequest(context.Background(), issuer, validRequest(), defaultSettings(), gate)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	_, isKind := models.KindOf(err)
	assert.False(t, isKind)
}
