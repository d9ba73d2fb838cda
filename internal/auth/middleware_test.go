package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RequireAuth(t *testing.T) {
	t.Parallel()

	tokens, err := NewJWTService(testSecret, 24*time.Hour)
	require.NoError(t, err)

	validToken, err := tokens.CreateToken(testUser())
	require.NoError(t, err)

	expiredIssuer, err := NewJWTService(testSecret, -time.Minute)
	require.NoError(t, err)
	expiredToken, err := expiredIssuer.CreateToken(testUser())
	require.NoError(t, err)

	mw := NewMiddleware(tokens)

	var gotClaims *TokenClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc123", http.StatusUnauthorized},
		{"scheme without token", "Bearer", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized},
		{"valid token", "Bearer " + validToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClaims = nil

			req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.RequireAuth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, gotClaims)
				assert.Equal(t, int64(42), gotClaims.UserID)
				assert.Equal(t, "a@x.com", gotClaims.Email)
			} else {
				assert.Nil(t, gotClaims)
			}
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetUserIDFromContext(req.Context())
	assert.False(t, ok)
}
