package tokens

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/middleware"
)

// tokenContextKey is the echo context key for the authenticated token.
const tokenContextKey = "api_token"

// GetToken returns the token authenticated for this request, or nil.
func GetToken(c echo.Context) *Token {
	tok, _ := c.Get(tokenContextKey).(*Token)
	return tok
}

// RequireToken returns middleware that authenticates requests with an
// "Authorization: Bearer <token>" header.
func RequireToken(svc TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return apperror.NewUnauthorized("api token required")
			}
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				return apperror.NewUnauthorized("invalid authorization format, use: Bearer <token>")
			}

			tok, err := svc.Authenticate(c.Request().Context(), raw)
			if err != nil {
				return err
			}

			c.Set(tokenContextKey, tok)
			c.Set(middleware.TokenNameKey, tok.Name)
			return next(c)
		}
	}
}
