package auth

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hr_backend/internal/service/token"
)

const AdminRole = "Admin"

// Middleware authenticates requests with a bearer access token. Only HS256
// tokens signed with the configured secret are accepted.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		SigningKey:    secret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(token.AccessClaims)
		},
	})
}

func claimsFrom(c echo.Context) (*token.AccessClaims, bool) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := tok.Claims.(*token.AccessClaims)
	return claims, ok
}

// UserID extracts the authenticated user's id from the access token claims.
func UserID(c echo.Context) (uint, bool) {
	claims, ok := claimsFrom(c)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// RequireRole guards a route group behind a role claim.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := claimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			for _, r := range claims.Roles {
				if r == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
	}
}
