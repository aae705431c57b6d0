package service

import (
	"context"
	"testing"
	"time"

	"github.com/campusgrid/studentportal/internal/dto"
	"github.com/campusgrid/studentportal/internal/model"
	"github.com/campusgrid/studentportal/internal/repository"
	"github.com/campusgrid/studentportal/internal/token"
	"github.com/campusgrid/studentportal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (AuthService, repository.UserRepository, *token.Service) {
	t.Helper()

	repo := repository.NewUserRepository(testDB(t))
	tokens := token.NewService("test-secret", time.Hour)
	return NewAuthService(repo, tokens), repo, tokens
}

func registerInput() dto.RegisterInput {
	return dto.RegisterInput{
		Email:           "alice@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            "student",
		Name:            "Alice",
	}
}

func TestRegister_Success(t *testing.T) {
	svc, _, tokens := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, model.RoleStudent, resp.User.Role)
	assert.Equal(t, "Alice", resp.User.Name)

	ident, err := tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, ident.UserID)
	assert.Equal(t, model.RoleStudent, ident.Role)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.Name = "Other Alice"
	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// No second row was created.
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegister_InvalidRole(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	input := registerInput()
	input.Role = "admin"
	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestLogin_Success(t *testing.T) {
	svc, _, tokens := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dto.LoginInput{
		Email:    "alice@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	ident, err := tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, ident.UserID)
	assert.Equal(t, "alice@example.com", ident.Email)
	assert.Equal(t, model.RoleStudent, ident.Role)
}

func TestLogin_GenericFailure(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, wrongPassErr := svc.Login(ctx, dto.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	_, unknownUserErr := svc.Login(ctx, dto.LoginInput{
		Email:    "nobody@example.com",
		Password: "secret1",
	})

	// Wrong password and unknown email must be indistinguishable.
	require.Error(t, wrongPassErr)
	require.Error(t, unknownUserErr)
	assert.ErrorIs(t, wrongPassErr, apperror.ErrUnauthorized)
	assert.ErrorIs(t, unknownUserErr, apperror.ErrUnauthorized)
	assert.Equal(t, wrongPassErr.Error(), unknownUserErr.Error())
}
