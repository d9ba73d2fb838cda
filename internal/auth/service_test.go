package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MdAyanBadar/mini-auth-project/internal/logging"
	"github.com/MdAyanBadar/mini-auth-project/internal/user"
)

// fakeUserStore is an in-memory UserStore used by the service tests.
type fakeUserStore struct {
	users  map[int64]*user.User
	nextID int64

	// createErr forces the next Create call to fail, simulating the
	// losing side of a concurrent-creation race.
	createErr error

	// missLookups makes the next N combined lookups miss, so a row
	// inserted by a "concurrent" request is only visible on retry.
	missLookups int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*user.User{}, nextID: 1}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserStore) GetByGoogleIDOrEmail(_ context.Context, googleID, email string) (*user.User, error) {
	if f.missLookups > 0 {
		f.missLookups--
		return nil, user.ErrNotFound
	}
	for _, u := range f.users {
		if (u.GoogleID != nil && *u.GoogleID == googleID) || u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, u *user.User) (*user.User, error) {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return nil, err
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, user.ErrDuplicate
		}
		if existing.GoogleID != nil && u.GoogleID != nil && *existing.GoogleID == *u.GoogleID {
			return nil, user.ErrDuplicate
		}
	}
	created := *u
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	f.nextID++
	f.users[created.ID] = &created

	clone := created
	return &clone, nil
}

func (f *fakeUserStore) AttachGoogleID(_ context.Context, userID int64, googleID string) error {
	existing, ok := f.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	if existing.GoogleID != nil && *existing.GoogleID != googleID {
		return user.ErrGoogleIDTaken
	}
	existing.GoogleID = &googleID
	return nil
}

// fakeGoogleVerifier returns a fixed claim or error.
type fakeGoogleVerifier struct {
	claim *GoogleClaim
	err   error
}

func (f *fakeGoogleVerifier) Verify(context.Context, string) (*GoogleClaim, error) {
	return f.claim, f.err
}

func newTestService(t *testing.T, store UserStore, google GoogleVerifier) *Service {
	t.Helper()

	tokens, err := NewJWTService(testSecret, 24*time.Hour)
	require.NoError(t, err)

	return NewService(store, google, tokens, logging.NewLogger(true), 4)
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store, &fakeGoogleVerifier{})
	ctx := context.Background()

	registered, token, err := svc.Register(ctx, "a@x.com", "secret1", "Ann")
	require.NoError(t, err)
	require.NotNil(t, registered)
	assert.Equal(t, "a@x.com", registered.Email)
	assert.Equal(t, "Ann", registered.Name)
	require.NotNil(t, registered.PasswordHash)
	assert.True(t, CheckPassword(*registered.PasswordHash, "secret1"))
	assert.Nil(t, registered.GoogleID)

	claims, err := svc.tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store, &fakeGoogleVerifier{})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@x.com", "secret1", "Ann")
	require.NoError(t, err)

	// Different password and name make no difference
	_, _, err = svc.Register(ctx, "a@x.com", "other-password", "Anna")
	assert.ErrorIs(t, err, user.ErrDuplicate)
}

func TestService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeUserStore(), &fakeGoogleVerifier{})
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  error
	}{
		{"missing email", "", "secret1", "Ann", ErrEmailRequired},
		{"missing password", "a@x.com", "", "Ann", ErrPasswordRequired},
		{"missing name", "a@x.com", "secret1", "", ErrNameRequired},
		{"short password", "a@x.com", "12345", "Ann", ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.email, tt.password, tt.userName)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store, &fakeGoogleVerifier{})
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "a@x.com", "secret1", "Ann")
	require.NoError(t, err)

	// Wrong password and unknown email yield the same error
	_, _, err = svc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	loggedIn, token, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
}

func TestService_Login_GoogleOnlyAccount(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	googleID := "g-1"
	_, err := store.Create(context.Background(), &user.User{
		Email:    "g@x.com",
		Name:     "Gee",
		GoogleID: &googleID,
	})
	require.NoError(t, err)

	svc := newTestService(t, store, &fakeGoogleVerifier{})

	_, _, err = svc.Login(context.Background(), "g@x.com", "whatever")
	assert.ErrorIs(t, err, ErrGoogleOnlyAccount)
}

func TestService_GoogleAuth_CreatesNewUser(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store, &fakeGoogleVerifier{
		claim: &GoogleClaim{Subject: "g-1", Email: "b@x.com", Name: "Bee"},
	})

	created, token, err := svc.GoogleAuth(context.Background(), "some-google-token")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	assert.Equal(t, "b@x.com", created.Email)
	require.NotNil(t, created.GoogleID)
	assert.Equal(t, "g-1", *created.GoogleID)
	assert.Nil(t, created.PasswordHash)
}

func TestService_GoogleAuth_LinksExistingAccount(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store, &fakeGoogleVerifier{
		claim: &GoogleClaim{Subject: "g-2", Email: "c@x.com", Name: "Cee"},
	})
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "c@x.com", "secret1", "Cee")
	require.NoError(t, err)
	passwordHash := *registered.PasswordHash

	// First Google login attaches the subject to the password account
	linked, _, err := svc.GoogleAuth(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, linked.ID)
	require.NotNil(t, linked.GoogleID)
	assert.Equal(t, "g-2", *linked.GoogleID)

	// Second login is idempotent: same id, email and hash, still one link
	again, _, err := svc.GoogleAuth(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, again.ID)
	assert.Equal(t, "c@x.com", again.Email)
	require.NotNil(t, again.PasswordHash)
	assert.Equal(t, passwordHash, *again.PasswordHash)
}

func TestService_GoogleAuth_SubjectMismatch(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	otherID := "g-other"
	_, err := store.Create(context.Background(), &user.User{
		Email:    "d@x.com",
		Name:     "Dee",
		GoogleID: &otherID,
	})
	require.NoError(t, err)

	svc := newTestService(t, store, &fakeGoogleVerifier{
		claim: &GoogleClaim{Subject: "g-new", Email: "d@x.com", Name: "Dee"},
	})

	_, _, err = svc.GoogleAuth(context.Background(), "token")
	assert.ErrorIs(t, err, user.ErrGoogleIDTaken)
}

func TestService_GoogleAuth_CreationRaceReturnsWinner(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store, &fakeGoogleVerifier{
		claim: &GoogleClaim{Subject: "g-3", Email: "e@x.com", Name: "Ee"},
	})
	ctx := context.Background()

	// Simulate losing the first-login race: the initial lookup misses,
	// the insert hits the unique constraint because a concurrent request
	// created the row in between, and the retry lookup finds the winner.
	googleID := "g-3"
	winner, err := store.Create(ctx, &user.User{Email: "e@x.com", Name: "Ee", GoogleID: &googleID})
	require.NoError(t, err)
	store.missLookups = 1
	store.createErr = user.ErrDuplicate

	resolved, _, err := svc.GoogleAuth(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, resolved.ID)
}

func TestService_GoogleAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeUserStore(), &fakeGoogleVerifier{
		err: errors.New("provider said no"),
	})

	_, _, err := svc.GoogleAuth(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}
