package caller

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "tourmint/pkg/domain"
	"tourmint/pkg/requestcontext"
)

type stubValidator struct {
	tokens map[string]id.Identity
}

func (v stubValidator) ValidateToken(token string) (id.Identity, error) {
	if sub, ok := v.tokens[token]; ok {
		return sub, nil
	}
	return "", errors.New("signature is invalid")
}

func TestRequireCaller(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := stubValidator{tokens: map[string]id.Identity{"good": "ST1ISSUER"}}

	serve := func(header string) (id.Identity, bool, int) {
		var got id.Identity
		called := false
		handler := RequireCaller(validator, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			got = requestcontext.Caller(r.Context())
		}))
		req := httptest.NewRequest(http.MethodPost, "/credentials", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return got, called, w.Code
	}

	t.Run("valid bearer token sets caller", func(t *testing.T) {
		got, called, code := serve("Bearer good")
		assert.True(t, called)
		assert.Equal(t, id.Identity("ST1ISSUER"), got)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		_, called, _ := serve("bearer good")
		assert.True(t, called)
	})

	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic good",
		"empty token":    "Bearer ",
		"invalid token":  "Bearer forged",
	} {
		t.Run(name, func(t *testing.T) {
			_, called, code := serve(header)
			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, code)
		})
	}
}
