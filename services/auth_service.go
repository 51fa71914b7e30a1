package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/himuexe/Utsavia/domain"
	"github.com/himuexe/Utsavia/internal/federation"
	"github.com/himuexe/Utsavia/internal/metrics"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
// The two cases are deliberately indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService implements the login, registration and federated-login flows
// on top of the user repository, the password hasher and the token service.
type AuthService struct {
	users  domain.UserRepository
	hasher PasswordHasher
	tokens *TokenService
}

// NewAuthService creates an AuthService.
func NewAuthService(users domain.UserRepository, hasher PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// LoginResult carries the outcome of a successful authentication.
type LoginResult struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Login authenticates an email/password pair and issues a bearer token.
// A lookup miss and a password mismatch both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginFailureTotal.Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.HasPassword() {
		// Google-only account; no password to compare against.
		metrics.LoginFailureTotal.Inc()
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		metrics.LoginFailureTotal.Inc()
		return nil, ErrInvalidCredentials
	}

	result, err := s.completeLogin(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.LoginSuccessTotal.Inc()

	return result, nil
}

// Register hashes the password, creates the user and issues a token. A
// duplicate email surfaces as domain.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*LoginResult, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	result, err := s.completeLogin(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.UserRegisteredTotal.Inc()

	return result, nil
}

// FederatedLogin reconciles an external profile with a local account and
// issues a bearer token for it.
func (s *AuthService) FederatedLogin(ctx context.Context, info *federation.ExternalUserInfo) (*LoginResult, error) {
	user, err := s.ReconcileFederatedUser(ctx, info)
	if err != nil {
		return nil, err
	}

	result, err := s.completeLogin(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.GoogleLoginTotal.Inc()

	return result, nil
}

// ReconcileFederatedUser applies the find-or-create rule, keyed by email:
//
//   - found without a Google id: attach it (linking password and Google
//     login to one identity);
//   - found with a Google id: no mutation, even if the id differs;
//   - not found: create a new user from the profile, with no password hash.
//
// Concurrent first logins for the same email race on the create; the unique
// email index decides the winner and the loser falls back to a lookup.
func (s *AuthService) ReconcileFederatedUser(ctx context.Context, info *federation.ExternalUserInfo) (*domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, info.Email)
	switch {
	case err == nil:
		if !user.IsLinked() {
			if err := s.users.SetGoogleID(ctx, user.ID, info.ProviderUserID); err != nil {
				return nil, fmt.Errorf("failed to link google identity: %w", err)
			}
			user.GoogleID = info.ProviderUserID
		}
		return user, nil

	case errors.Is(err, domain.ErrUserNotFound):
		user = &domain.User{
			Email:    info.Email,
			Name:     info.Name,
			GoogleID: info.ProviderUserID,
		}
		createErr := s.users.CreateUser(ctx, user)
		if createErr == nil {
			return user, nil
		}
		if errors.Is(createErr, domain.ErrEmailTaken) {
			// Lost the create race; the user exists now.
			log.Debug().Str("email", info.Email).Msg("concurrent federated signup, re-reading user")
			return s.users.GetUserByEmail(ctx, info.Email)
		}
		return nil, fmt.Errorf("failed to create federated user: %w", createErr)

	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
}

func (s *AuthService) completeLogin(ctx context.Context, user *domain.User) (*LoginResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		// Bookkeeping only; the login itself succeeded.
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login timestamp")
	}

	return &LoginResult{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
