package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/himuexe/Utsavia/cache"
	"github.com/himuexe/Utsavia/internal/metrics"
)

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, malformed payload, wrong issuer, or past expiry. Callers get no
// finer-grained detail.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and verifies the signed bearer tokens carried in the
// auth cookie. Tokens are self-contained: validity is signature plus expiry,
// there is no revocation list. A token stays valid until its natural expiry
// even after logout.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	store  cache.TokenStore
}

// NewTokenService creates a TokenService. The signing secret must be
// validated by the caller at startup; an empty secret here is a programming
// error. store may be nil to disable memoization of verified tokens.
func NewTokenService(secret, issuer string, ttl time.Duration, store cache.TokenStore) *TokenService {
	if secret == "" {
		panic("token service: signing secret must not be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		store:  store,
	}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue mints a signed token for the user, expiring ttl from now.
func (s *TokenService) Issue(userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	metrics.TokensIssuedTotal.Inc()

	return signed, expiresAt, nil
}

// Verify checks the token's signature and expiry and returns the subject
// (user id). Nothing from an unverified payload is ever trusted.
func (s *TokenService) Verify(ctx context.Context, tokenValue string) (string, error) {
	if s.store != nil {
		if entry, ok := s.store.Get(ctx, tokenValue); ok {
			if time.Now().Before(entry.ExpiresAt) {
				return entry.UserID, nil
			}
			// The backend kept an entry past its expiry; drop it.
			_ = s.store.Delete(ctx, tokenValue)
			return "", ErrInvalidToken
		}
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	if s.store != nil {
		entry := &cache.Entry{UserID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}
		if cacheErr := s.store.Set(ctx, tokenValue, entry); cacheErr != nil {
			log.Warn().Err(cacheErr).Msg("failed to cache verified token")
		}
	}

	return claims.Subject, nil
}
