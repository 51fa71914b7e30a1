package ginapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/himuexe/Utsavia/domain"
	apierrors "github.com/himuexe/Utsavia/errors"
	"github.com/himuexe/Utsavia/internal/federation"
	"github.com/himuexe/Utsavia/services"
)

const (
	// authCookieName carries the bearer token between requests.
	authCookieName = "auth_token"
	// stateCookieName carries the signed OAuth state during the redirect
	// round trip.
	stateCookieName = "oauth_state"
	// stateTTL bounds how long a started Google login may take.
	stateTTL = 5 * time.Minute
)

// Config holds the request-independent settings of the auth API.
type Config struct {
	// FrontendURL is the base URL browser flows redirect back to.
	FrontendURL string
	// SessionSecret signs the OAuth state cookie.
	SessionSecret string
	// SecureCookies marks all cookies Secure (production deployments).
	SecureCookies bool
	// TokenTTL is the max age of the auth cookie, matching the token's own
	// lifetime.
	TokenTTL time.Duration
}

// AuthAPI exposes the authentication HTTP surface: password login and
// registration, the Google login round trip, token validation and logout.
type AuthAPI struct {
	auth       *services.AuthService
	tokens     *services.TokenService
	federation *federation.Service
	states     domain.AuthStateRepository
	cfg        Config
}

// NewAuthAPI initializes the auth API. federationService and states may be
// nil when Google login is not configured; the Google routes then respond
// with a redirect to the login-failure route.
func NewAuthAPI(
	authService *services.AuthService,
	tokenService *services.TokenService,
	federationService *federation.Service,
	states domain.AuthStateRepository,
	cfg Config,
) *AuthAPI {
	return &AuthAPI{
		auth:       authService,
		tokens:     tokenService,
		federation: federationService,
		states:     states,
		cfg:        cfg,
	}
}

// RegisterRoutes registers the auth routes under /api/auth.
func (a *AuthAPI) RegisterRoutes(r gin.IRouter) {
	group := r.Group("/api/auth")
	{
		group.POST("/register", a.RegisterHandler)
		group.POST("/login", a.LoginHandler)
		group.GET("/validate-token", AuthRequired(a.tokens), a.ValidateTokenHandler)
		group.POST("/logout", a.LogoutHandler)
		group.GET("/google", a.GoogleLoginHandler)
		group.GET("/google/callback", a.GoogleCallbackHandler)
	}
}

func respondError(c *gin.Context, apiErr *apierrors.APIError) {
	c.JSON(apiErr.Status, apiErr)
}

// setAuthCookie attaches the issued token as an HTTP-only cookie.
func (a *AuthAPI) setAuthCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.cfg.TokenTTL.Seconds()),
		Secure:   a.cfg.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookie expires the auth cookie. The token itself stays valid
// until its natural expiry; there is no server-side revocation.
func (a *AuthAPI) clearAuthCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   a.cfg.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// signState produces the state cookie value: the state plus an HMAC over it,
// so a callback cannot be completed with a forged cookie.
func (a *AuthAPI) signState(state string) string {
	mac := hmac.New(sha256.New, []byte(a.cfg.SessionSecret))
	mac.Write([]byte(state))
	return state + "." + hex.EncodeToString(mac.Sum(nil))
}

// verifyStateCookie checks the cookie's HMAC and returns the embedded state.
func (a *AuthAPI) verifyStateCookie(value string) (string, bool) {
	idx := strings.LastIndexByte(value, '.')
	if idx <= 0 {
		return "", false
	}
	state, sig := value[:idx], value[idx+1:]
	mac := hmac.New(sha256.New, []byte(a.cfg.SessionSecret))
	mac.Write([]byte(state))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return state, true
}
