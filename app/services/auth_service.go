package services

import (
	"context"
	"fmt"

	"github.com/jantrick/jantrick/app/models"
	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/pkg/auth"
)

// TokenIssuer signs tokens for an email.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

// LoginResult is returned by PUT /user/{email}.
type LoginResult struct {
	Result models.UpdateResult `json:"result"`
	Token  string              `json:"token"`
}

// AuthService covers login and the admin role.
type AuthService struct {
	users  repositories.UserStore
	tokens TokenIssuer
}

func NewAuthService(users repositories.UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login upserts the profile for email and issues a fresh token. Login and
// registration are the same call.
func (s *AuthService) Login(ctx context.Context, email string, profile models.Document) (*LoginResult, error) {
	res, err := s.users.Upsert(ctx, email, profile)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Result: res, Token: token}, nil
}

// IsAdmin reports whether email belongs to an admin. An unknown email is
// not an admin.
func (s *AuthService) IsAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u != nil && u.IsAdmin(), nil
}

// PromoteToAdmin grants the admin role to target when requester is an
// admin. Roles only move from unset to admin; there is no demotion. A
// missing target leaves the store untouched.
func (s *AuthService) PromoteToAdmin(ctx context.Context, requester *auth.Identity, target string) (models.UpdateResult, error) {
	if requester == nil {
		return models.UpdateResult{}, ErrForbidden
	}

	ok, err := s.IsAdmin(ctx, requester.Email)
	if err != nil {
		return models.UpdateResult{}, err
	}
	if !ok {
		return models.UpdateResult{}, ErrForbidden
	}

	return s.users.SetRole(ctx, target, models.RoleAdmin)
}

// Grant sets the admin role without a requester check. It backs the
// admin:grant CLI command used to bootstrap the first admin.
func (s *AuthService) Grant(ctx context.Context, email string) (models.UpdateResult, error) {
	return s.users.SetRole(ctx, email, models.RoleAdmin)
}
