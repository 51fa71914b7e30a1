package ginapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/himuexe/Utsavia/domain"
	apierrors "github.com/himuexe/Utsavia/errors"
	"github.com/himuexe/Utsavia/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// bindingErrors turns a gin binding failure into per-field messages. The
// messages mirror what the frontend already displays.
func bindingErrors(err error) []apierrors.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apierrors.FieldError{{Field: "body", Message: "Invalid request body"}}
	}
	out := make([]apierrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldErrorFor(fe))
	}
	return out
}

func fieldErrorFor(fe validator.FieldError) apierrors.FieldError {
	switch fe.Field() {
	case "Email":
		return apierrors.FieldError{Field: "email", Message: "Email is required"}
	case "Password":
		return apierrors.FieldError{Field: "password", Message: "Password with 6 or more characters is required"}
	case "Name":
		return apierrors.FieldError{Field: "name", Message: "Name is required"}
	default:
		return apierrors.FieldError{Field: fe.Field(), Message: "Invalid value"}
	}
}

// LoginHandler authenticates an email/password pair and sets the auth
// cookie. Unknown email and wrong password are indistinguishable to the
// caller.
func (a *AuthAPI) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidation(bindingErrors(err)))
		return
	}

	result, err := a.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, apierrors.NewInvalidCredentials())
			return
		}
		log.Error().Err(err).Msg("login failed")
		respondError(c, apierrors.NewInternal())
		return
	}

	a.setAuthCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{"userId": result.UserID})
}

// RegisterHandler creates a password account and logs it in immediately.
func (a *AuthAPI) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidation(bindingErrors(err)))
		return
	}

	result, err := a.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			respondError(c, apierrors.NewConflict("an account with this email already exists"))
			return
		}
		log.Error().Err(err).Msg("registration failed")
		respondError(c, apierrors.NewInternal())
		return
	}

	a.setAuthCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{"userId": result.UserID})
}

// ValidateTokenHandler reports the authenticated user's ID. AuthRequired has
// already verified the cookie by the time this runs.
func (a *AuthAPI) ValidateTokenHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"userId": c.GetString(AuthUserIDKey)})
}

// LogoutHandler clears the auth cookie. The response carries no body.
func (a *AuthAPI) LogoutHandler(c *gin.Context) {
	a.clearAuthCookie(c)
	c.Status(http.StatusOK)
}
