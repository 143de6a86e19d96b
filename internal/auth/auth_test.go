package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(secret, "form-1", "form", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "form-1", claims.SessionID)
	assert.Equal(t, "form", claims.Kind)
	assert.NoError(t, claims.Authorize("form-1", "form"))
	assert.ErrorIs(t, claims.Authorize("form-2", "form"), ErrWrongSession)
	assert.ErrorIs(t, claims.Authorize("form-1", "chat"), ErrWrongSession)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	expired, err := GenerateToken(secret, "s", "chat", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(secret, expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other, err := GenerateToken("other-secret", "s", "chat", time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken(secret, other)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ValidateToken(secret, "not-a-token")
	assert.Error(t, err)
}

func TestRequireSession(t *testing.T) {
	r := chi.NewRouter()
	r.With(RequireSession(secret, "form", "formId")).Get("/forms/{formId}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetClaims(r.Context()).SessionID))
	})

	own, err := GenerateToken(secret, "f1", "form", time.Hour)
	require.NoError(t, err)
	chatTok, err := GenerateToken(secret, "f1", "chat", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"own session", "/forms/f1", "Bearer " + own, http.StatusOK},
		{"missing header", "/forms/f1", "", http.StatusUnauthorized},
		{"garbage token", "/forms/f1", "Bearer xyz", http.StatusUnauthorized},
		{"other session", "/forms/f2", "Bearer " + own, http.StatusForbidden},
		{"other kind", "/forms/f1", "Bearer " + chatTok, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "f1", rec.Body.String())
			}
		})
	}
}
