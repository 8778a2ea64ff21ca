// Package auth keeps the local sign-in state. There is no account backend:
// credentials are accepted as given and only the identity is remembered.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/omara/internal/apperror"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// TokenType is the type reported with every issued token.
const TokenType = "Bearer"

type credentials struct {
	Email    string `validate:"required,email"`
	Username string `validate:"required"`
}

// Service signs users in and out of the local session.
type Service struct {
	users *store.UserStore
}

// NewService returns a Service backed by users.
func NewService(users *store.UserStore) *Service {
	return &Service{users: users}
}

// Login records email as the current user and returns a bearer token. The
// password is not checked.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Token, error) {
	email = strings.TrimSpace(email)
	return s.signIn(ctx, email, usernameFromEmail(email))
}

// Register records a new identity and signs it in. The password is not
// stored.
func (s *Service) Register(ctx context.Context, email, username, password string) (*model.Token, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if username == "" {
		username = usernameFromEmail(email)
	}
	return s.signIn(ctx, email, username)
}

func (s *Service) signIn(ctx context.Context, email, username string) (*model.Token, error) {
	if err := model.Validate(credentials{Email: email, Username: username}); err != nil {
		return nil, err
	}

	secret, err := s.users.SessionSecret(ctx)
	if err != nil {
		return nil, err
	}
	token, err := GenerateToken(secret, username, email)
	if err != nil {
		return nil, err
	}

	user := model.UserData{Email: email, Username: username, IsAuthenticated: true}
	if err := s.users.Set(ctx, user); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return &model.Token{AccessToken: token, TokenType: TokenType}, nil
}

// Current returns the signed-in user, or nil.
func (s *Service) Current(ctx context.Context) (*model.UserData, error) {
	return s.users.Get(ctx)
}

// Verify checks a token issued by Login or Register and returns its claims.
// Tokens issued before the last Logout are rejected.
func (s *Service) Verify(ctx context.Context, token string) (*Claims, error) {
	secret, err := s.users.SessionSecret(ctx)
	if err != nil {
		return nil, err
	}
	claims, err := ValidateToken(secret, token)
	if err != nil {
		return nil, apperror.ValidationFailed("token", err.Error())
	}
	return claims, nil
}

// Logout clears the session and invalidates outstanding tokens.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.users.Clear(ctx); err != nil {
		return err
	}
	return s.users.RotateSessionSecret(ctx)
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
