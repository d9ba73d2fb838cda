package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MdAyanBadar/mini-auth-project/internal/logging"
	"github.com/MdAyanBadar/mini-auth-project/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrNameRequired       = errors.New("name is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")

	// ErrGoogleOnlyAccount deliberately discloses that the account
	// exists and uses Google sign-in. This is the one intentional
	// exception to the uniform invalid-credentials message.
	ErrGoogleOnlyAccount = errors.New("this account uses google sign-in")
)

// Service handles authentication business logic: credential
// verification, identity resolution and session-token issuance.
type Service struct {
	users      UserStore
	google     GoogleVerifier
	tokens     TokenService
	logger     *logging.Logger
	bcryptCost int
}

func NewService(
	users UserStore,
	google GoogleVerifier,
	tokens TokenService,
	logger *logging.Logger,
	bcryptCost int,
) *Service {
	return &Service{
		users:      users,
		google:     google,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new password-based account and issues a session token.
func (s *Service) Register(ctx context.Context, email, password, name string) (*user.User, string, error) {
	// Validate input
	if email == "" {
		return nil, "", ErrEmailRequired
	}
	if password == "" {
		return nil, "", ErrPasswordRequired
	}
	if name == "" {
		return nil, "", ErrNameRequired
	}
	if len(password) < MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	// Check if the email is already taken. The unique constraint still
	// backs this up when two registrations race past the check.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", user.ErrDuplicate
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, &user.User{
		Email:        email,
		PasswordHash: &passwordHash,
		Name:         name,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return nil, "", user.ErrDuplicate
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.CreateToken(newUser)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	return newUser, token, nil
}

// Login verifies a password credential and issues a session token.
// Unknown email and wrong password produce the same error so the
// response does not reveal whether the email is registered.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	if email == "" {
		return nil, "", ErrEmailRequired
	}
	if password == "" {
		return nil, "", ErrPasswordRequired
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if existing.PasswordHash == nil {
		return nil, "", ErrGoogleOnlyAccount
	}

	if !CheckPassword(*existing.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	return existing, token, nil
}

// GoogleAuth verifies a Google credential, resolves it to a user row
// (creating or linking as needed) and issues a session token.
func (s *Service) GoogleAuth(ctx context.Context, googleToken string) (*user.User, string, error) {
	claim, err := s.google.Verify(ctx, googleToken)
	if err != nil {
		s.logger.Warn("google token verification failed", "error", err.Error())
		return nil, "", ErrInvalidGoogleToken
	}

	resolved, err := s.resolveGoogleClaim(ctx, claim)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.CreateToken(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	return resolved, token, nil
}

// resolveGoogleClaim maps a verified claim to the canonical user row.
func (s *Service) resolveGoogleClaim(ctx context.Context, claim *GoogleClaim) (*user.User, error) {
	existing, err := s.users.GetByGoogleIDOrEmail(ctx, claim.Subject, claim.Email)

	switch {
	case err == nil:
		if existing.GoogleID == nil {
			if err := s.users.AttachGoogleID(ctx, existing.ID, claim.Subject); err != nil {
				if errors.Is(err, user.ErrGoogleIDTaken) || errors.Is(err, user.ErrDuplicate) {
					return nil, user.ErrGoogleIDTaken
				}
				return nil, fmt.Errorf("failed to link google identity: %w", err)
			}
			googleID := claim.Subject
			existing.GoogleID = &googleID
		} else if *existing.GoogleID != claim.Subject {
			// The matched row (by email) is already linked to another
			// Google identity. Surface it, never overwrite.
			return nil, user.ErrGoogleIDTaken
		}
		return existing, nil

	case errors.Is(err, user.ErrNotFound):
		googleID := claim.Subject
		created, err := s.users.Create(ctx, &user.User{
			Email:    claim.Email,
			Name:     claim.Name,
			GoogleID: &googleID,
		})
		if err == nil {
			return created, nil
		}
		if errors.Is(err, user.ErrDuplicate) {
			// Lost a concurrent first-login race; the winner's row
			// satisfies the same claim.
			return s.users.GetByGoogleIDOrEmail(ctx, claim.Subject, claim.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)

	default:
		return nil, fmt.Errorf("failed to resolve google claim: %w", err)
	}
}
