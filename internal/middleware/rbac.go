package middleware

import (
	"slices"

	"stagebook/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireRole admits requests whose authenticated role is one of roles.
// It must run after the JWT middleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetUserIDFromContext(ctx); !ok {
				return common.ErrUnauthorized
			}
			role, ok := common.GetRoleFromContext(ctx)
			if !ok || !slices.Contains(roles, role) {
				return common.ErrForbidden
			}
			return next(c)
		}
	}
}
