package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armandusbasson/KSA-PSMS/internal/auth"
	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	database := newTestDB(t)
	tokens := auth.NewManager("test-secret", 30*time.Minute)
	return NewAuthService(repository.NewUserRepository(database), tokens)
}

func createTestUser(t *testing.T, svc *AuthService, username, password string, role model.UserRole) *model.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), UserCreateInput{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	createTestUser(t, svc, "armand", "secret123", model.UserRoleAdmin)

	result, err := svc.Login(ctx, "armand", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "bearer", result.TokenType)
	require.NotNil(t, result.User.LastLogin)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)
	createTestUser(t, svc, "armand", "secret123", model.UserRoleUser)

	_, err := svc.Login(context.Background(), "armand", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLoginDisabledAccount(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user := createTestUser(t, svc, "armand", "secret123", model.UserRoleUser)

	inactive := false
	_, err := svc.UpdateUser(ctx, user.ID, UserUpdateInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "armand", "secret123")
	assert.True(t, errors.Is(err, ErrAccountDisabled))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)
	createTestUser(t, svc, "armand", "secret123", model.UserRoleUser)

	_, err := svc.CreateUser(context.Background(), UserCreateInput{
		Username: "armand",
		Password: "another123",
	})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCreateUserValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, UserCreateInput{Username: "ab", Password: "secret123"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = svc.CreateUser(ctx, UserCreateInput{Username: "valid", Password: "short"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = svc.CreateUser(ctx, UserCreateInput{Username: "valid", Password: "secret123", Role: "superuser"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, UserCreateInput{Username: "first", Password: "secret123", Email: "first@ksa.local"})
	require.NoError(t, err)

	second, err := svc.CreateUser(ctx, UserCreateInput{Username: "second", Password: "secret123", Email: "second@ksa.local"})
	require.NoError(t, err)

	taken := "first@ksa.local"
	_, err = svc.UpdateProfile(ctx, second.ID, &taken, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	name := "Second User"
	updated, err := svc.UpdateProfile(ctx, second.ID, nil, &name)
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user := createTestUser(t, svc, "armand", "secret123", model.UserRoleUser)

	err := svc.ChangePassword(ctx, user.ID, "wrong", "newsecret")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "secret123", "newsecret"))

	_, err = svc.Login(ctx, "armand", "newsecret")
	require.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user := createTestUser(t, svc, "armand", "secret123", model.UserRoleUser)

	require.NoError(t, svc.ResetPassword(ctx, user.ID, "resetpass"))
	_, err := svc.Login(ctx, "armand", "resetpass")
	require.NoError(t, err)
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	admin := createTestUser(t, svc, "admin", "secret123", model.UserRoleAdmin)
	other := createTestUser(t, svc, "other", "secret123", model.UserRoleUser)

	err := svc.DeleteUser(ctx, admin.ID, admin.ID)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	require.NoError(t, svc.DeleteUser(ctx, other.ID, admin.ID))
	_, err = svc.GetUser(ctx, other.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
