package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arjunmehta/stitchbook-backend/internal/users"
	pkgAuth "github.com/arjunmehta/stitchbook-backend/pkg/auth"
	"github.com/arjunmehta/stitchbook-backend/pkg/auth/session"
	"github.com/arjunmehta/stitchbook-backend/pkg/config"
	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
	pkgerrors "github.com/arjunmehta/stitchbook-backend/pkg/errors"
	"github.com/arjunmehta/stitchbook-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[uuid.UUID]*models.User),
	}
}

func (f *fakeUserRepo) add(user *models.User) {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
}

func (f *fakeUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if _, exists := f.byEmail[dto.Email]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	f.add(user)
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type fakeSessions struct {
	tokens map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: make(map[string]string)}
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.tokens[accessID] = token
	return token, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.tokens, oldAccessID)
	newAccessID := session.NewAccessID()
	token := "refresh-" + newAccessID
	f.tokens[newAccessID] = token
	return newAccessID, token, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	delete(f.tokens, accessID)
	return nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "stitchbook",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func newTestService(t *testing.T) (Service, *fakeUserRepo, *fakeSessions) {
	t.Helper()
	repo := newFakeUserRepo()
	sessions := newFakeSessions()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc, repo, sessions
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password, role string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	require.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		IsActive:     active,
	}
	repo.add(user)
	return user
}

func TestLogin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "owner@shop.in", "correct-horse", "owner", true)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Owner@Shop.in",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "owner", string(claims.Role))
}

func TestLogin_Rejections(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(t, repo, "staff@shop.in", "password-1", "staff", true)
	seedUser(t, repo, "gone@shop.in", "password-2", "staff", false)
	ctx := context.Background()

	cases := []LoginRequest{
		{Email: "staff@shop.in", Password: "wrong"},
		{Email: "gone@shop.in", Password: "password-2"},
		{Email: "nobody@shop.in", Password: "password-1"},
		{Email: "", Password: "password-1"},
	}
	for _, req := range cases {
		_, err := svc.Login(ctx, req)
		require.Error(t, err, "email=%q", req.Email)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
	}
}

func TestRefresh(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedUser(t, repo, "owner@shop.in", "correct-horse", "owner", true)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "owner@shop.in", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old pair is spent.
	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "staff@shop.in", "password-1", "staff", true)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "staff@shop.in", Password: "password-1"})
	require.NoError(t, err)

	user.IsActive = false

	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
}

func TestLogout(t *testing.T) {
	svc, repo, sessions := newTestService(t)
	seedUser(t, repo, "owner@shop.in", "correct-horse", "owner", true)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "owner@shop.in", Password: "correct-horse"})
	require.NoError(t, err)
	require.Len(t, sessions.tokens, 1)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	assert.Empty(t, sessions.tokens)

	require.Error(t, svc.Logout(ctx, " "))
}

func TestCreateStaff(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.CreateStaff(ctx, CreateStaffRequest{
		Email: "New.Staff@Shop.in",
		Name:  "New Staff",
		Role:  "staff",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "new.staff@shop.in", resp.User.Email)
	assert.NotEmpty(t, resp.TempPassword)

	// The temporary password works for login.
	login, err := svc.Login(ctx, LoginRequest{Email: "new.staff@shop.in", Password: resp.TempPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)

	// Duplicate email conflicts.
	_, err = svc.CreateStaff(ctx, CreateStaffRequest{Email: "new.staff@shop.in", Name: "Dup", Role: "staff"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	// Unknown roles are rejected.
	_, err = svc.CreateStaff(ctx, CreateStaffRequest{Email: "x@shop.in", Name: "X", Role: "admin"})
	require.Error(t, err)
}
