package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegisauth/aegis/internal/http/middleware"
)

const sessionCookieMaxAge = 7 * 24 * 60 * 60

// CookieWriter stamps the session cookie with the environment's policy.
// Development keeps SameSite Lax over plain HTTP; production requires
// Secure and SameSite None for cross-site frontends.
type CookieWriter struct {
	prod bool
}

func NewCookieWriter(prod bool) *CookieWriter {
	return &CookieWriter{prod: prod}
}

// Set writes the session token cookie.
func (w *CookieWriter) Set(c *gin.Context, token string) {
	w.write(c, token, sessionCookieMaxAge)
}

// Clear expires the session token cookie.
func (w *CookieWriter) Clear(c *gin.Context) {
	w.write(c, "", -1)
}

func (w *CookieWriter) write(c *gin.Context, token string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if w.prod {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", w.prod, true)
}
