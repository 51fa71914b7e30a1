package federation

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// ExternalUserInfo holds standardized user information retrieved from an
// external OAuth2 provider.
type ExternalUserInfo struct {
	ProviderUserID string // Unique id of the user at the provider (Google's 'sub')
	Email          string
	Name           string
	PictureURL     string
	EmailVerified  bool
}

// OAuth2Provider defines the interface for an external OAuth2 identity
// provider. Implementations handle provider-specific endpoints and the shape
// of the user info response.
type OAuth2Provider interface {
	// Name returns the unique identifier for the provider (e.g. "google").
	Name() string

	// AuthCodeURL generates the authorization URL the browser is redirected
	// to. state is the round-trip protection value.
	AuthCodeURL(state string) string

	// ExchangeCode exchanges an authorization code for an OAuth2 token.
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchUserInfo uses an access token to retrieve user information from
	// the provider, returned as a standardized ExternalUserInfo.
	FetchUserInfo(ctx context.Context, token *oauth2.Token) (*ExternalUserInfo, error)

	// HTTPClient returns a client authenticated with the given token for
	// requests against the provider's API.
	HTTPClient(ctx context.Context, token *oauth2.Token) *http.Client
}
