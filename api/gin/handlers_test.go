package ginapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himuexe/Utsavia/domain"
	"github.com/himuexe/Utsavia/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	key := strings.ToLower(user.Email)
	if _, ok := r.users[key]; ok {
		return domain.ErrEmailTaken
	}
	r.nextID++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	r.users[key] = user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) SetGoogleID(_ context.Context, userID, googleID string) error {
	for _, user := range r.users {
		if user.ID == userID && user.GoogleID == "" {
			user.GoogleID = googleID
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	for _, user := range r.users {
		if user.ID == userID {
			user.LastLoginAt = &at
		}
	}
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (plainHasher) Verify(hashed, password string) error {
	if hashed != "plain:"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeUserRepo) {
	t.Helper()

	repo := newFakeUserRepo()
	tokens := services.NewTokenService("test-secret", "utsavia", time.Hour, nil)
	auth := services.NewAuthService(repo, plainHasher{}, tokens)

	api := NewAuthAPI(auth, tokens, nil, nil, Config{
		FrontendURL:   "http://localhost:5173",
		SessionSecret: "session-secret",
		TokenTTL:      time.Hour,
	})

	router := gin.New()
	api.RegisterRoutes(router)
	return router, repo
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == authCookieName {
			return c
		}
	}
	t.Fatal("no auth cookie in response")
	return nil
}

func TestRegisterSetsCookieAndReturnsUserID(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(router, "/api/auth/register",
		`{"email":"amit@example.com","password":"secret1","name":"Amit"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["userId"])

	cookie := authCookieFrom(t, w)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure, "secure should be off outside production")
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	router, _ := newTestRouter(t)

	first := postJSON(router, "/api/auth/register",
		`{"email":"amit@example.com","password":"secret1","name":"Amit"}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(router, "/api/auth/register",
		`{"email":"amit@example.com","password":"other-secret","name":"Amit"}`)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestLoginValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing email", `{"password":"secret1"}`, "Email is required"},
		{"malformed email", `{"email":"not-an-email","password":"secret1"}`, "Email is required"},
		{"short password", `{"email":"amit@example.com","password":"short"}`, "Password with 6 or more characters is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/auth/login", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}

	t.Run("all violated fields are listed", func(t *testing.T) {
		w := postJSON(router, "/api/auth/login", `{"email":"nope","password":"abc"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var body struct {
			Message []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Message, 2)

		fields := []string{body.Message[0].Field, body.Message[1].Field}
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
	})
}

func TestLoginUnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(router, "/api/auth/register",
		`{"email":"amit@example.com","password":"secret1","name":"Amit"}`)
	require.Equal(t, http.StatusOK, w.Code)

	unknown := postJSON(router, "/api/auth/login",
		`{"email":"nobody@example.com","password":"secret1"}`)
	wrong := postJSON(router, "/api/auth/login",
		`{"email":"amit@example.com","password":"not-the-password"}`)

	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
	assert.Contains(t, wrong.Body.String(), "Invalid Credentials")
}

func TestLoginThenValidateToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(router, "/api/auth/register",
		`{"email":"amit@example.com","password":"secret1","name":"Amit"}`)
	require.Equal(t, http.StatusOK, w.Code)

	login := postJSON(router, "/api/auth/login",
		`{"email":"amit@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, login.Code)
	cookie := authCookieFrom(t, login)

	var loginBody map[string]string
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &loginBody))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-token", nil)
	req.AddCookie(cookie)
	validate := httptest.NewRecorder()
	router.ServeHTTP(validate, req)

	require.Equal(t, http.StatusOK, validate.Code)
	var validateBody map[string]string
	require.NoError(t, json.Unmarshal(validate.Body.Bytes(), &validateBody))
	assert.Equal(t, loginBody["userId"], validateBody["userId"])
}

func TestValidateTokenRejections(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-token", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-token", nil)
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: "not-a-token"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := services.NewTokenService("other-secret", "utsavia", time.Hour, nil)
		token, _, err := other.Issue("user-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-token", nil)
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLogoutExpiresCookie(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(router, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	cookie := authCookieFrom(t, w)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0 || cookie.Expires.Before(time.Now()))
}
