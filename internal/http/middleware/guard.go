package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	aegis "github.com/aegisauth/aegis"
)

// UserIDKey is the gin context key under which Guard stores the
// authenticated user ID.
const UserIDKey = "user_id"

// SessionCookie is the cookie name carrying the session token.
const SessionCookie = "token"

// Guard authenticates the request from the session cookie. Requests without
// a valid token are rejected with a 401 envelope before the handler runs.
func Guard(engine *aegis.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			abortUnauthorized(c)
			return
		}

		uid, err := engine.Validate(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(UserIDKey, uid)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "Not Authorized. Login Again",
	})
}
