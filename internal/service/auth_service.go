package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/armandusbasson/KSA-PSMS/internal/auth"
	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
)

type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

type UserCreateInput struct {
	Username string
	Password string
	Email    string
	FullName string
	Role     model.UserRole
}

type UserUpdateInput struct {
	Username *string
	Email    *string
	FullName *string
	Role     *model.UserRole
	IsActive *bool
}

type AuthService struct {
	users  *repository.UserRepository
	tokens *auth.Manager
}

func NewAuthService(users *repository.UserRepository, tokens *auth.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies credentials, rejects inactive accounts, records the login
// time and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, TokenType: "bearer", User: user}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return user, nil
}

// UpdateProfile lets a user change their own email and full name only,
// regardless of what the caller submits.
func (s *AuthService) UpdateProfile(ctx context.Context, id uint, email, fullName *string) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	if email != nil && *email != "" {
		if err := s.ensureEmailFree(ctx, *email, id); err != nil {
			return nil, err
		}
		user.Email = *email
	}
	if fullName != nil {
		user.FullName = *fullName
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, id uint, currentPassword, newPassword string) error {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return asNotFound(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(currentPassword)) != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrInvalidInput)
	}
	return s.setPassword(ctx, id, newPassword)
}

// Admin operations.

func (s *AuthService) ListUsers(ctx context.Context, offset, limit int) ([]model.User, error) {
	return s.users.List(ctx, offset, limit)
}

func (s *AuthService) CreateUser(ctx context.Context, input UserCreateInput) (*model.User, error) {
	if len(input.Username) < 3 {
		return nil, fmt.Errorf("%w: username must be at least 3 characters", ErrInvalidInput)
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	role := input.Role
	if role == "" {
		role = model.UserRoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", ErrInvalidInput, role)
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, fmt.Errorf("%w: username already registered", ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if input.Email != "" {
		if err := s.ensureEmailFree(ctx, input.Email, 0); err != nil {
			return nil, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:       input.Username,
		HashedPassword: string(hashed),
		Email:          input.Email,
		FullName:       input.FullName,
		Role:           role,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateUser(ctx context.Context, id uint, input UserUpdateInput) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}

	if input.Username != nil && *input.Username != user.Username {
		if len(*input.Username) < 3 {
			return nil, fmt.Errorf("%w: username must be at least 3 characters", ErrInvalidInput)
		}
		existing, err := s.users.GetByUsername(ctx, *input.Username)
		if err == nil && existing.ID != id {
			return nil, fmt.Errorf("%w: username already taken", ErrInvalidInput)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *input.Username
	}
	if input.Email != nil && *input.Email != "" {
		if err := s.ensureEmailFree(ctx, *input.Email, id); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, fmt.Errorf("%w: invalid role %q", ErrInvalidInput, *input.Role)
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, id uint, newPassword string) error {
	if _, err := s.users.Get(ctx, id); err != nil {
		return asNotFound(err)
	}
	return s.setPassword(ctx, id, newPassword)
}

// DeleteUser refuses to delete the acting admin's own account.
func (s *AuthService) DeleteUser(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return fmt.Errorf("%w: cannot delete your own account", ErrInvalidInput)
	}
	if _, err := s.users.Get(ctx, id); err != nil {
		return asNotFound(err)
	}
	return s.users.Delete(ctx, id)
}

func (s *AuthService) setPassword(ctx context.Context, id uint, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, string(hashed))
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string, selfID uint) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("%w: email already registered", ErrInvalidInput)
	}
	return nil
}
