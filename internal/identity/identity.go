// Package identity issues and validates the bearer tokens that carry a caller's principal.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/requestcontext"
)

// DefaultIssuer is the "iss" claim of tokens minted for this service.
const DefaultIssuer = "tourmint"

// Claims is the token payload. The principal travels in the registered "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 caller tokens.
type Service struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

func NewService(signingKey, issuer string, tokenTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
	}
}

// IssueToken signs a token for the given principal.
func (s *Service) IssueToken(ctx context.Context, subject id.Identity) (string, error) {
	if subject.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "subject is required")
	}
	now := requestcontext.Now(ctx)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// ValidateToken verifies signature, expiry and issuer, and returns the token subject.
func (s *Service) ValidateToken(tokenString string) (id.Identity, error) {
	if tokenString == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "empty token")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		if errors.Is(err, jwt.ErrTokenInvalidIssuer) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token issuer")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	subject, err := id.ParseIdentity(claims.Subject)
	if err != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	return subject, nil
}
