package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"ministryhub_backend/internals/features/users/auth/repository"
)

const (
	defaultBlacklistTTL = 2 * time.Minute
	expiryGrace         = 60 * time.Second
	checkTimeout        = 2 * time.Second
)

// TokenStore is a TTL key store; redis when configured.
type TokenStore interface {
	BlacklistToken(ctx context.Context, key string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, key string) (bool, error)
}

// BlacklistService revokes access tokens before their natural expiry.
// Tokens are only ever stored as digests.
type BlacklistService struct {
	repo   repository.BlacklistRepository
	store  TokenStore
	secret string
	log    *zap.Logger
	now    func() time.Time
}

// NewBlacklistService uses store when non-nil and the token_blacklist table
// otherwise.
func NewBlacklistService(repo repository.BlacklistRepository, store TokenStore, secret string, log *zap.Logger) *BlacklistService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BlacklistService{repo: repo, store: store, secret: secret, log: log.Named("blacklist"), now: time.Now}
}

func Digest(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}

// TTLFor keeps the entry until the token's exp plus a grace minute. A token
// without a readable exp gets the short default.
func (s *BlacklistService) TTLFor(raw string) time.Duration {
	if s.secret == "" || raw == "" {
		return defaultBlacklistTTL
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(s.secret), nil
	})
	if err != nil || !tok.Valid {
		return defaultBlacklistTTL
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return defaultBlacklistTTL
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return defaultBlacklistTTL
	}
	if until := time.Unix(int64(exp), 0).Sub(s.now()); until > 0 {
		return until + expiryGrace
	}
	return time.Minute
}

func (s *BlacklistService) Revoke(ctx context.Context, raw string) error {
	digest := Digest(raw)
	ttl := s.TTLFor(raw)
	if s.store != nil {
		return s.store.BlacklistToken(ctx, digest, ttl)
	}
	return s.repo.Add(ctx, digest, s.now().Add(ttl))
}

func (s *BlacklistService) IsRevoked(ctx context.Context, raw string) (bool, error) {
	digest := Digest(raw)
	if s.store != nil {
		return s.store.IsBlacklisted(ctx, digest)
	}
	return s.repo.Exists(ctx, digest, s.now())
}

// Checker adapts IsRevoked to the JWT middleware hook.
func (s *BlacklistService) Checker() func(string) (bool, error) {
	return func(raw string) (bool, error) {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		revoked, err := s.IsRevoked(ctx, raw)
		if err != nil {
			s.log.Warn("blacklist lookup failed", zap.Error(err))
		}
		return revoked, err
	}
}

// PurgeExpired drops table rows past expiry; redis entries expire on their own.
func (s *BlacklistService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.store != nil {
		return 0, nil
	}
	return s.repo.DeleteExpired(ctx, s.now())
}
