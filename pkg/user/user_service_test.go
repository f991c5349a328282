package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserAssignsUid(t *testing.T) {
	service := NewUserService(NewStubUserRepo())

	created, err := service.CreateUser(context.Background(), User{
		Email:       "jane@example.com",
		DisplayName: "Jane",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Uid)
	assert.Equal(t, 1, created.Id)
}

func TestCreateUserKeepsProvidedUid(t *testing.T) {
	service := NewUserService(NewStubUserRepo())

	created, err := service.CreateUser(context.Background(), User{
		Uid:   "external-uid",
		Email: "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "external-uid", created.Uid)
}

func TestGetCurrentUser(t *testing.T) {
	service := NewUserService(NewStubUserRepo())
	created, err := service.CreateUser(context.Background(), User{
		Email:    "jane@example.com",
		Settings: Settings{Currency: "EUR"},
	})
	require.NoError(t, err)

	ctx := WithUser(context.Background(), created)
	current, err := service.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", current.Email)
	assert.Equal(t, "EUR", current.Settings.Currency)

	_, err = service.GetCurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestGetUserByUid(t *testing.T) {
	service := NewUserService(NewStubUserRepo())
	created, err := service.CreateUser(context.Background(), User{Email: "jane@example.com"})
	require.NoError(t, err)

	found, err := service.GetUserByUid(context.Background(), created.Uid)
	require.NoError(t, err)
	assert.Equal(t, created.Id, found.Id)

	_, err = service.GetUserByUid(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUserChangesSettings(t *testing.T) {
	service := NewUserService(NewStubUserRepo())
	created, err := service.CreateUser(context.Background(), User{
		Email:    "jane@example.com",
		Settings: Settings{Currency: "USD"},
	})
	require.NoError(t, err)

	ctx := WithUser(context.Background(), created)
	created.Settings.Currency = "GBP"
	created.Settings.OnboardingCompleted = true
	updated, err := service.UpdateUser(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "GBP", updated.Settings.Currency)
	assert.True(t, updated.Settings.OnboardingCompleted)
}

func TestDeleteUser(t *testing.T) {
	repo := NewStubUserRepo()
	service := NewUserService(repo)
	created, err := service.CreateUser(context.Background(), User{Email: "jane@example.com"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteUser(context.Background(), created.Id))
	_, err = repo.GetUser(context.Background(), created.Id)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
