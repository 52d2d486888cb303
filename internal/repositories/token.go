package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/desertthunder/podx/internal/shared"
)

// TokenKey is the kv_store key holding the session token.
const TokenKey = "podcast_agent_token"

// TokenStore persists the session token across restarts.
type TokenStore struct {
	kv *KVRepository
}

// NewTokenStore creates a [TokenStore] backed by kv.
func NewTokenStore(kv *KVRepository) *TokenStore {
	return &TokenStore{kv: kv}
}

// Load returns the stored token, or "" when none is stored.
func (s *TokenStore) Load(ctx context.Context) (string, error) {
	token, err := s.kv.Get(ctx, TokenKey)
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Save stores token. A blank token clears the key.
func (s *TokenStore) Save(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return s.Clear(ctx)
	}
	return s.kv.Put(ctx, TokenKey, token)
}

// Clear removes the stored token.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, TokenKey)
}
