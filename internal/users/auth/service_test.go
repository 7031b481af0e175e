// Copyright (c) 2026 SOYO. All rights reserved.

package auth

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyoapp/soyo/internal/platform/apperr"
	"github.com/soyoapp/soyo/internal/platform/sec"
)

// memoryUserRepository is an in-memory UserRepository for service tests.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*User // keyed by ID
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*User)}
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if user, ok := repo.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	_, ok := repo.users[id]
	return ok, nil
}

func (repo *memoryUserRepository) Create(_ context.Context, user *User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}

	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryUserRepository) UpdateRefreshTokenHash(_ context.Context, userID, tokenHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if user, ok := repo.users[userID]; ok {
		user.RefreshTokenHash = tokenHash
	}
	return nil
}

func (repo *memoryUserRepository) ClearRefreshTokenHash(_ context.Context, userID string) error {
	return repo.UpdateRefreshTokenHash(context.Background(), userID, "")
}

func (repo *memoryUserRepository) UpdateAvatar(_ context.Context, userID, avatarURL, avatarKey string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if user, ok := repo.users[userID]; ok {
		user.AvatarURL = avatarURL
		user.AvatarKey = avatarKey
	}
	return nil
}

// newTestService wires a Service against in-memory storage and real HS256 tokens.
func newTestService(t *testing.T) (*Service, *memoryUserRepository) {
	t.Helper()

	tokens, err := sec.NewTokenService("test-access-secret", "test-refresh-secret", "soyo.test")
	require.NoError(t, err)

	repo := newMemoryUserRepository()
	return NewService(repo, tokens), repo
}

/*
TestSignup_DuplicateEmail verifies that registering the same email twice
yields a Conflict, including when only the letter case differs.
*/
func TestSignup_DuplicateEmail(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = service.Signup(ctx, SignupInput{Name: "Ana Again", Email: "ANA@Example.COM", Password: "password456"})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

/*
TestSignup_NormalizesEmail verifies emails are stored lowercase and trimmed,
and that signup hands back a ready-to-use session.
*/
func TestSignup_NormalizesEmail(t *testing.T) {
	service, _ := newTestService(t)

	session, err := service.Signup(context.Background(), SignupInput{
		Name:     "Bo",
		Email:    "  Bo@Example.Com ",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "bo@example.com", session.User.Email)
	assert.NotEmpty(t, session.User.ID)
	assert.NotEqual(t, "password123", session.User.PasswordHash)

	// Signup logs the account in: both tokens issued and refresh works.
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	accessToken, err := service.Refresh(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}

/*
TestLogin_IdenticalFailureMessages checks that an unknown email and a wrong
password produce byte-identical error messages, preventing account enumeration.
*/
func TestLogin_IdenticalFailureMessages(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Signup(ctx, SignupInput{Name: "Cara", Email: "cara@example.com", Password: "password123"})
	require.NoError(t, err)

	_, unknownEmailErr := service.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	_, wrongPasswordErr := service.Login(ctx, LoginInput{Email: "cara@example.com", Password: "wrong-password"})

	require.Error(t, unknownEmailErr)
	require.Error(t, wrongPasswordErr)
	assert.Equal(t, unknownEmailErr.Error(), wrongPasswordErr.Error())

	ae := apperr.As(unknownEmailErr)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

/*
TestLogin_IssuesWorkingTokenPair verifies the full login → refresh round trip.
*/
func TestLogin_IssuesWorkingTokenPair(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	signup, err := service.Signup(ctx, SignupInput{Name: "Dee", Email: "dee@example.com", Password: "password123"})
	require.NoError(t, err)

	session, err := service.Login(ctx, LoginInput{Email: "dee@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, signup.User.ID, session.User.ID)

	// The refresh token must be exchangeable for a new access token.
	accessToken, err := service.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}

/*
TestRefresh_AfterLogout ensures a refresh token dies when the user logs out,
even though its JWT signature remains valid.
*/
func TestRefresh_AfterLogout(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	signup, err := service.Signup(ctx, SignupInput{Name: "Eli", Email: "eli@example.com", Password: "password123"})
	require.NoError(t, err)

	session, err := service.Login(ctx, LoginInput{Email: "eli@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, signup.User.ID))

	_, err = service.Refresh(ctx, session.RefreshToken)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

/*
TestRefresh_StaleTokenAfterRelogin verifies the single-session rule: a second
login replaces the stored hash, so the first session's refresh token is dead.
*/
func TestRefresh_StaleTokenAfterRelogin(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Signup(ctx, SignupInput{Name: "Fay", Email: "fay@example.com", Password: "password123"})
	require.NoError(t, err)

	firstSession, err := service.Login(ctx, LoginInput{Email: "fay@example.com", Password: "password123"})
	require.NoError(t, err)

	secondSession, err := service.Login(ctx, LoginInput{Email: "fay@example.com", Password: "password123"})
	require.NoError(t, err)

	// The superseded token fails even though it has not expired.
	_, err = service.Refresh(ctx, firstSession.RefreshToken)
	require.Error(t, err)

	// The fresh token keeps working.
	_, err = service.Refresh(ctx, secondSession.RefreshToken)
	require.NoError(t, err)
}

/*
TestRefresh_RejectsAccessToken ensures an access token cannot be replayed
against the refresh endpoint (distinct signing secrets).
*/
func TestRefresh_RejectsAccessToken(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Signup(ctx, SignupInput{Name: "Gil", Email: "gil@example.com", Password: "password123"})
	require.NoError(t, err)

	session, err := service.Login(ctx, LoginInput{Email: "gil@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = service.Refresh(ctx, session.AccessToken)
	require.Error(t, err)
}

/*
TestUserExists reflects account liveness for the middleware check.
*/
func TestUserExists(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	session, err := service.Signup(ctx, SignupInput{Name: "Hana", Email: "hana@example.com", Password: "password123"})
	require.NoError(t, err)

	userID := session.User.ID

	exists, err := service.UserExists(ctx, userID)
	require.NoError(t, err)
	assert.True(t, exists)

	delete(repo.users, userID)

	exists, err = service.UserExists(ctx, userID)
	require.NoError(t, err)
	assert.False(t, exists)
}

/*
TestSignup_TrimsName covers whitespace handling on the display name.
*/
func TestSignup_TrimsName(t *testing.T) {
	service, _ := newTestService(t)

	session, err := service.Signup(context.Background(), SignupInput{
		Name:     "  Iris  ",
		Email:    "iris@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Iris", session.User.Name)
	assert.False(t, strings.Contains(session.User.Name, " "))
}
