package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nimbusfeed/backend/internal/identity"
)

const actorContextKey = "actor"

// FirebaseAuthMiddleware creates an Echo middleware that verifies the bearer
// token and stores the resolved actor in the request context.
func FirebaseAuthMiddleware(provider identity.Provider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			actor, err := provider.VerifyToken(c.Request().Context(), tokenParts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

// OptionalFirebaseAuthMiddleware resolves the actor when a valid bearer token
// is present and leaves the request anonymous otherwise. Read endpoints use
// it; mutations require the strict variant.
func OptionalFirebaseAuthMiddleware(provider identity.Provider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) == 2 && strings.ToLower(tokenParts[0]) == "bearer" {
				if actor, err := provider.VerifyToken(c.Request().Context(), tokenParts[1]); err == nil {
					c.Set(actorContextKey, actor)
				}
			}
			return next(c)
		}
	}
}

// ActorFromContext returns the actor resolved by the auth middleware, or nil
// for an anonymous request.
func ActorFromContext(c echo.Context) *identity.Actor {
	actor, _ := c.Get(actorContextKey).(*identity.Actor)
	return actor
}
