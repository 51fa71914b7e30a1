package federation

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
)

// Service handles the core logic for OAuth2 federation: provider lookup,
// state generation, and the callback exchange. Reconciliation of the external
// identity with a local user lives in the auth service, not here.
type Service struct {
	providers map[string]OAuth2Provider
}

// NewService creates a federation Service with an empty provider registry.
func NewService() *Service {
	return &Service{providers: make(map[string]OAuth2Provider)}
}

// RegisterProvider adds a provider implementation to the registry. Providers
// are registered once at process start.
func (s *Service) RegisterProvider(provider OAuth2Provider) {
	s.providers[provider.Name()] = provider
}

// GetProvider returns a registered provider by name.
func (s *Service) GetProvider(providerName string) (OAuth2Provider, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return provider, nil
}

// GenerateAuthState generates a unique, unguessable string for the state
// parameter.
func (s *Service) GenerateAuthState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GetAuthorizationURL constructs the URL to redirect the user to for
// authentication with the external provider.
func (s *Service) GetAuthorizationURL(providerName, state string) (string, error) {
	provider, err := s.GetProvider(providerName)
	if err != nil {
		return "", err
	}
	return provider.AuthCodeURL(state), nil
}

// HandleCallback processes the callback from the external provider. The
// queryState comes from the callback URL; knownState is the state previously
// stored for this round trip. On success it returns the verified profile.
func (s *Service) HandleCallback(
	ctx context.Context,
	providerName string,
	queryState string,
	knownState string,
	code string,
) (*ExternalUserInfo, *oauth2.Token, error) {
	if queryState == "" || queryState != knownState {
		return nil, nil, ErrInvalidAuthState
	}

	provider, err := s.GetProvider(providerName)
	if err != nil {
		return nil, nil, err
	}

	token, err := provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrExchangeCodeFailed, err)
	}

	userInfo, err := provider.FetchUserInfo(ctx, token)
	if err != nil {
		return nil, token, fmt.Errorf("%w: %v", ErrFetchUserInfoFailed, err)
	}

	return userInfo, token, nil
}
