package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inspirehub/internal/adapters/http/dto"
	"github.com/jsamuelsen/inspirehub/internal/platform/logging"
)

// ContextKeyUsername is the gin key holding the signed-in username.
const ContextKeyUsername = "username"

// CurrentUser reports the signed-in username, if any.
type CurrentUser func() (string, bool)

// SessionUser records the signed-in username on the gin context and the
// request logger. Anonymous requests pass through untouched.
func SessionUser(current CurrentUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if name, ok := current(); ok {
			c.Set(ContextKeyUsername, name)
			c.Request = c.Request.WithContext(logging.WithUsername(c.Request.Context(), name))
		}

		c.Next()
	}
}

// RequireUser rejects anonymous requests with 401 UNAUTHORIZED before the
// handler binds anything.
func RequireUser(current CurrentUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := current(); !ok {
			dto.HandleErrorCode(c, dto.ErrorCodeUnauthorized, "sign in to use personalization")
			return
		}

		c.Next()
	}
}

// GetUsername returns the username set by SessionUser, or "".
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}
