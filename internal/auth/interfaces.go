package auth

import (
	"context"

	"github.com/MdAyanBadar/mini-auth-project/internal/user"
)

// TokenService issues and verifies session tokens.
// The only implementation is JWTService (HS256).
type TokenService interface {
	CreateToken(u *user.User) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// UserStore is the persistence surface the auth service needs.
// Implemented by user.Repository.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) (*user.User, error)
	AttachGoogleID(ctx context.Context, userID int64, googleID string) error
}

// GoogleVerifier validates a Google-issued credential of unknown
// sub-type and produces the verified identity claim.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*GoogleClaim, error)
}
