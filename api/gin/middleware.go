package ginapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/himuexe/Utsavia/errors"
	"github.com/himuexe/Utsavia/services"
)

// AuthUserIDKey is the gin context key AuthRequired stores the
// authenticated user's ID under.
const AuthUserIDKey = "auth_user_id"

// AuthRequired verifies the auth cookie and aborts with 401 when it is
// missing, malformed or expired. Handlers behind it read the user ID from
// the context.
func AuthRequired(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(authCookieName)
		if err != nil || token == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := tokens.Verify(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(AuthUserIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	apiErr := apierrors.NewUnauthorized()
	c.AbortWithStatusJSON(http.StatusUnauthorized, apiErr)
}
