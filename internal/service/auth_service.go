package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/campusgrid/studentportal/internal/dto"
	"github.com/campusgrid/studentportal/internal/model"
	"github.com/campusgrid/studentportal/internal/repository"
	"github.com/campusgrid/studentportal/internal/token"
	"github.com/campusgrid/studentportal/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens *token.Service
}

func NewAuthService(repo repository.UserRepository, tokens *token.Service) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	role := model.Role(input.Role)
	if !role.Valid() {
		return nil, apperror.New(http.StatusBadRequest, "role must be student or faculty", apperror.ErrInvalidInput)
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.New(http.StatusConflict, "email already registered", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: string(hashed),
		Role:         role,
		Name:         input.Name,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// Two concurrent registrations can both pass the lookup above;
		// the unique index settles it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(http.StatusConflict, "email already registered", apperror.ErrConflict)
		}
		return nil, err
	}

	return s.buildAuthResponse(user, "Registration successful")
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials()
	}

	return s.buildAuthResponse(user, "Login successful")
}

// errInvalidCredentials deliberately does not distinguish an unknown email
// from a wrong password.
func errInvalidCredentials() error {
	return apperror.New(http.StatusUnauthorized, "invalid email or password", apperror.ErrUnauthorized)
}

func (s *authService) buildAuthResponse(user *model.User, message string) (*dto.AuthResponse, error) {
	signed, expiresAt, err := s.tokens.Issue(token.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Message:     message,
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt.Unix(),
		User:        user,
	}, nil
}
