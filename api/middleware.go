package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard-api/domain"
)

const identityKey = "identity"

// RequireAuth extracts and verifies the session token, storing the
// authenticated identity on the context. A request without a token gets
// 401; one with a bad or expired token gets 403.
func RequireAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, err := tokenFromRequest(c.Request())
			if err != nil {
				return fail(c, http.StatusUnauthorized, errMissingToken.Error())
			}
			ident, err := auth.Verify(tok)
			if err != nil {
				return fail(c, http.StatusForbidden, errInvalidToken.Error())
			}
			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

func identityFrom(c echo.Context) domain.Identity {
	ident, _ := c.Get(identityKey).(domain.Identity)
	return ident
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, envelope{Success: false, Error: msg})
}
