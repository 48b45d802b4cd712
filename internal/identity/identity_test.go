package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/requestcontext"
)

var service = NewService("test-signing-key", "tourmint-test", time.Minute)

func Test_IssueAndValidate(t *testing.T) {
	token, err := service.IssueToken(context.Background(), id.Identity("ST1ISSUER"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.Identity("ST1ISSUER"), subject)
}

func Test_IssueToken_EmptySubject(t *testing.T) {
	_, err := service.IssueToken(context.Background(), "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func Test_ValidateToken(t *testing.T) {
	past := requestcontext.WithTime(context.Background(), time.Now().Add(-time.Hour))
	expired, err := service.IssueToken(past, id.Identity("ST1ISSUER"))
	require.NoError(t, err)

	other := NewService("test-signing-key", "someone-else", time.Minute)
	foreignIssuer, err := other.IssueToken(context.Background(), id.Identity("ST1ISSUER"))
	require.NoError(t, err)

	wrongKey := NewService("another-key", "tourmint-test", time.Minute)
	badSignature, err := wrongKey.IssueToken(context.Background(), id.Identity("ST1ISSUER"))
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "ST1ISSUER",
		Issuer:    "tourmint-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"empty", "", "empty token"},
		{"garbage", "not-a-token", "invalid token"},
		{"expired", expired, "token expired"},
		{"wrong issuer", foreignIssuer, "invalid token issuer"},
		{"wrong signing key", badSignature, "invalid token"},
		{"unsigned", unsigned, "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateToken(tt.token)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
			assert.EqualError(t, err, tt.message)
		})
	}
}
