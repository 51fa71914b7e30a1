package ginapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const googleProviderName = "google"

// loginFailureURL is where browser flows land when a Google login cannot be
// completed. The flow is redirect-driven, so failures never return JSON.
func (a *AuthAPI) loginFailureURL() string {
	return a.cfg.FrontendURL + "/login"
}

func (a *AuthAPI) loginSuccessURL() string {
	return a.cfg.FrontendURL + "/"
}

// GoogleLoginHandler starts the Google login round trip: it stores a
// single-use state server-side, mirrors it into a signed cookie and
// redirects to Google's consent screen.
func (a *AuthAPI) GoogleLoginHandler(c *gin.Context) {
	if a.federation == nil || a.states == nil {
		log.Warn().Msg("google login requested but federation is not configured")
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}

	state, err := a.federation.GenerateAuthState()
	if err != nil {
		log.Error().Err(err).Msg("generating oauth state failed")
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}

	ctx := c.Request.Context()
	if err := a.states.Put(ctx, state, time.Now().Add(stateTTL)); err != nil {
		log.Error().Err(err).Msg("storing oauth state failed")
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}

	authURL, err := a.federation.GetAuthorizationURL(googleProviderName, state)
	if err != nil {
		log.Error().Err(err).Str("provider", googleProviderName).Msg("building authorization url failed")
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    a.signState(state),
		Path:     "/",
		MaxAge:   int(stateTTL.Seconds()),
		Secure:   a.cfg.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallbackHandler completes the Google login: it checks the state
// against both the signed cookie and the server-side store, exchanges the
// code, reconciles the user and sets the auth cookie.
func (a *AuthAPI) GoogleCallbackHandler(c *gin.Context) {
	if a.federation == nil || a.states == nil {
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		log.Warn().Str("error", errParam).Msg("google callback returned an error")
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}

	cookieValue, err := c.Cookie(stateCookieName)
	a.clearStateCookie(c)
	if err != nil {
		log.Warn().Msg("google callback without state cookie")
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}
	knownState, ok := a.verifyStateCookie(cookieValue)
	if !ok {
		log.Warn().Msg("google callback with a tampered state cookie")
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}

	ctx := c.Request.Context()
	queryState := c.Query("state")

	// Take is single use: a replayed callback fails here.
	if err := a.states.Take(ctx, queryState); err != nil {
		log.Warn().Err(err).Msg("google callback with an unknown or used state")
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}

	info, _, err := a.federation.HandleCallback(ctx, googleProviderName, queryState, knownState, c.Query("code"))
	if err != nil {
		log.Error().Err(err).Msg("google callback failed")
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}

	result, err := a.auth.FederatedLogin(ctx, info)
	if err != nil {
		log.Error().Err(err).Msg("reconciling google user failed")
		c.Redirect(http.StatusFound, a.loginFailureURL())
		return
	}

	a.setAuthCookie(c, result.Token)
	c.Redirect(http.StatusFound, a.loginSuccessURL())
}

func (a *AuthAPI) clearStateCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   a.cfg.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
