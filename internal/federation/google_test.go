package federation_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/himuexe/Utsavia/internal/federation"
)

func newTestGoogleProvider(t *testing.T) *federation.GoogleProvider {
	t.Helper()
	provider, err := federation.NewGoogleProvider(federation.GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/api/auth/google/callback",
	})
	require.NoError(t, err)
	return provider
}

func TestNewGoogleProviderRequiresCredentials(t *testing.T) {
	_, err := federation.NewGoogleProvider(federation.GoogleConfig{ClientID: "only-id"})
	assert.ErrorIs(t, err, federation.ErrProviderMisconfigured)
}

func TestGoogleAuthCodeURL(t *testing.T) {
	provider := newTestGoogleProvider(t)

	url := provider.AuthCodeURL("state-xyz")
	assert.Contains(t, url, "accounts.google.com")
	assert.Contains(t, url, "state=state-xyz")
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "scope=openid+profile+email")
}

func TestGoogleFetchUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"sub": "1093902384",
			"name": "Ada Lovelace",
			"given_name": "Ada",
			"email": "ada@x.com",
			"email_verified": true,
			"picture": "https://lh3.example/photo.jpg"
		}`))
	}))
	defer srv.Close()

	orig := federation.GoogleUserInfoEndpoint
	federation.GoogleUserInfoEndpoint = srv.URL
	defer func() { federation.GoogleUserInfoEndpoint = orig }()

	provider := newTestGoogleProvider(t)
	info, err := provider.FetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "at"})
	require.NoError(t, err)

	assert.Equal(t, "1093902384", info.ProviderUserID)
	assert.Equal(t, "ada@x.com", info.Email)
	assert.Equal(t, "Ada Lovelace", info.Name)
	assert.True(t, info.EmailVerified)
}

func TestGoogleFetchUserInfoRejectsIncompleteProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name": "No Subject"}`))
	}))
	defer srv.Close()

	orig := federation.GoogleUserInfoEndpoint
	federation.GoogleUserInfoEndpoint = srv.URL
	defer func() { federation.GoogleUserInfoEndpoint = orig }()

	provider := newTestGoogleProvider(t)
	_, err := provider.FetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "at"})
	assert.ErrorIs(t, err, federation.ErrFetchUserInfoFailed)
}

func TestGoogleFetchUserInfoNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	orig := federation.GoogleUserInfoEndpoint
	federation.GoogleUserInfoEndpoint = srv.URL
	defer func() { federation.GoogleUserInfoEndpoint = orig }()

	provider := newTestGoogleProvider(t)
	_, err := provider.FetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "at"})
	assert.Error(t, err)
}
