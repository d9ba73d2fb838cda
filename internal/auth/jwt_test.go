package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MdAyanBadar/mini-auth-project/internal/user"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testUser() *user.User {
	return &user.User{
		ID:    42,
		Email: "a@x.com",
		Name:  "Ann",
	}
}

func TestJWTService_CreateAndVerify(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testSecret, 24*time.Hour)
	require.NoError(t, err)

	token, err := svc.CreateToken(testUser())
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
	assert.NotEmpty(t, claims.ID)

	issued := claims.IssuedAt.Time
	expires := claims.ExpiresAt.Time
	assert.WithinDuration(t, time.Now(), issued, time.Minute)
	assert.Equal(t, 24*time.Hour, expires.Sub(issued))
}

func TestJWTService_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testSecret, -time.Minute)
	require.NoError(t, err)

	token, err := svc.CreateToken(testUser())
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewJWTService(testSecret, time.Hour)
	require.NoError(t, err)
	verifier, err := NewJWTService([]byte("another-secret-another-secret-32"), time.Hour)
	require.NoError(t, err)

	token, err := issuer.CreateToken(testUser())
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_TamperedToken(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := svc.CreateToken(testUser())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.VerifyToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTService_ShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService([]byte("too-short"), time.Hour)
	assert.Error(t, err)
}
