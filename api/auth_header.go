package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	authTokenHeader = "x-auth-token"
	tokenCookieName = "token"
)

// tokenFromRequest extracts the session token. The custom header takes
// precedence, then the Authorization bearer header, then the session
// cookie. A malformed bearer header is treated the same as an absent
// one so the cookie can still be consulted.
func tokenFromRequest(r *http.Request) (string, error) {
	if tok := strings.TrimSpace(r.Header.Get(authTokenHeader)); tok != "" {
		return tok, nil
	}
	if tok := bearerToken(r.Header.Get(echo.HeaderAuthorization)); tok != "" {
		return tok, nil
	}
	if c, err := r.Cookie(tokenCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errMissingToken
}

// bearerToken returns the token portion of an Authorization header, or
// "" when the header does not carry a well-formed bearer JWT.
func bearerToken(raw string) string {
	raw = strings.TrimSpace(raw)
	const prefix = "Bearer "
	if len(raw) <= len(prefix) || !strings.EqualFold(raw[:len(prefix)], prefix) {
		return ""
	}
	tok := strings.TrimSpace(raw[len(prefix):])
	if strings.Count(tok, ".") != 2 {
		return ""
	}
	return tok
}
