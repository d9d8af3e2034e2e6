package usecase

import (
	"context"
	"testing"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenStore struct {
	tokens map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]string)}
}

func (s *fakeTokenStore) Save(_ context.Context, userID, token string) error {
	s.tokens[userID] = token
	return nil
}

func (s *fakeTokenStore) IsCurrent(_ context.Context, userID, token string) (bool, error) {
	return s.tokens[userID] == token, nil
}

func (s *fakeTokenStore) Invalidate(_ context.Context, userID string) error {
	delete(s.tokens, userID)
	return nil
}

const testSecret = "test-secret"

func newUserUsecase(repo *fakeUserRepo, tokens *fakeTokenStore) *UserUsecase {
	return NewUserUsecase(repo, tokens, testSecret, logger.New())
}

func registerUser(t *testing.T, uc *UserUsecase, username, email, password string) *domain.User {
	t.Helper()
	user, err := uc.Register(context.Background(), username, email, password)
	require.NoError(t, err)
	return user
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUserUsecase(repo, newFakeTokenStore())

	user := registerUser(t, uc, "aigerim", "aigerim@example.com", "s3cret")

	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.True(t, user.IsActive)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUserUsecase(repo, newFakeTokenStore())
	registerUser(t, uc, "aigerim", "aigerim@example.com", "s3cret")

	_, err := uc.Register(context.Background(), "other", "aigerim@example.com", "pw")

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin_ReturnsSignedToken(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := newFakeTokenStore()
	uc := newUserUsecase(repo, tokens)
	user := registerUser(t, uc, "aigerim", "aigerim@example.com", "s3cret")

	token, err := uc.Login(context.Background(), "aigerim@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &authClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(*authClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID, claims.UserID)

	current, err := tokens.IsCurrent(context.Background(), user.ID, token)
	require.NoError(t, err)
	assert.True(t, current)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUserUsecase(repo, newFakeTokenStore())
	registerUser(t, uc, "aigerim", "aigerim@example.com", "s3cret")

	_, err := uc.Login(context.Background(), "aigerim@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	uc := newUserUsecase(newFakeUserRepo(), newFakeTokenStore())

	_, err := uc.Login(context.Background(), "nobody@example.com", "pw")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUserUsecase(repo, newFakeTokenStore())
	user := registerUser(t, uc, "aigerim", "aigerim@example.com", "s3cret")
	repo.users[user.ID].IsActive = false

	_, err := uc.Login(context.Background(), "aigerim@example.com", "s3cret")

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := newFakeTokenStore()
	uc := newUserUsecase(repo, tokens)
	user := registerUser(t, uc, "aigerim", "aigerim@example.com", "s3cret")
	token, err := uc.Login(context.Background(), "aigerim@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), user.ID))

	current, err := tokens.IsCurrent(context.Background(), user.ID, token)
	require.NoError(t, err)
	assert.False(t, current)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUserUsecase(repo, newFakeTokenStore())
	user := registerUser(t, uc, "aigerim", "aigerim@example.com", "s3cret")

	require.NoError(t, uc.UpdateProfile(context.Background(), user.ID, "aika", ""))

	got, err := uc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "aika", got.Username)
	assert.Equal(t, "aigerim@example.com", got.Email)
}

func TestDeactivate_RevokesTokenAndBlocksLogin(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := newFakeTokenStore()
	uc := newUserUsecase(repo, tokens)
	user := registerUser(t, uc, "aigerim", "aigerim@example.com", "s3cret")
	token, err := uc.Login(context.Background(), "aigerim@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(context.Background(), user.ID))

	current, err := tokens.IsCurrent(context.Background(), user.ID, token)
	require.NoError(t, err)
	assert.False(t, current)

	_, err = uc.Login(context.Background(), "aigerim@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = uc.GetProfile(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestChangePassword_RequiresOldPassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUserUsecase(repo, newFakeTokenStore())
	user := registerUser(t, uc, "aigerim", "aigerim@example.com", "s3cret")

	err := uc.ChangePassword(context.Background(), user.ID, "wrong", "newpw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, uc.ChangePassword(context.Background(), user.ID, "s3cret", "newpw"))

	_, err = uc.Login(context.Background(), "aigerim@example.com", "newpw")
	assert.NoError(t, err)
}
