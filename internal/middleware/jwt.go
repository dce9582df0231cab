package middleware

import (
	"context"
	"net/http"

	"sewlovely/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AdminContext runs after echo-jwt has validated the token. It lifts the
// admin ID out of the sub claim into the request context, where handlers and
// services read it with common.GetAdminIDFromContext.
func AdminContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing admin id in token")
			}

			adminID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid admin id format")
			}

			ctx := context.WithValue(c.Request().Context(), common.AdminIDKey, adminID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
