package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireSuperuser gates the account-management surface. Runs after
// RequireAdmin in the chain.
func (m *Middleware) RequireSuperuser(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAdmin(func(c echo.Context) error {
		admin, err := CurrentAdmin(c)
		if err != nil {
			return err
		}
		if !admin.IsSuperuser {
			return echo.NewHTTPError(http.StatusForbidden, "only superuser access allowed")
		}
		return next(c)
	})
}
