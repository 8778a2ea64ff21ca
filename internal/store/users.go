package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/storage"
)

// UserStore keeps the local session record.
type UserStore struct {
	base
}

// NewUserStore returns a UserStore over kv.
func NewUserStore(kv *storage.Adapter, opts ...Option) *UserStore {
	return &UserStore{base: newBase(kv, opts)}
}

// Get returns the stored session, or nil if nobody is signed in.
func (s *UserStore) Get(ctx context.Context) (*model.UserData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return storage.Read[*model.UserData](ctx, s.kv, storage.KeyUserData, nil), nil
}

// Set replaces the stored session.
func (s *UserStore) Set(ctx context.Context, u model.UserData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	storage.Write(ctx, s.kv, storage.KeyUserData, u)
	return nil
}

// Clear removes the stored session.
func (s *UserStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.kv.Remove(ctx, storage.KeyUserData)
	return nil
}

// SessionSecret returns the key used to sign session tokens, generating and
// storing one on first use.
func (s *UserStore) SessionSecret(ctx context.Context) (string, error) {
	if secret, ok := s.kv.ReadString(ctx, storage.KeySessionSecret); ok && secret != "" {
		return secret, nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}
	secret := hex.EncodeToString(buf)
	s.kv.WriteString(ctx, storage.KeySessionSecret, secret)

	return secret, nil
}

// RotateSessionSecret replaces the signing key, which invalidates every token
// issued so far.
func (s *UserStore) RotateSessionSecret(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.kv.Remove(ctx, storage.KeySessionSecret)
	_, err := s.SessionSecret(ctx)
	return err
}
