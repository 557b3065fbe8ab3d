package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Developer-0210/food-order-server/internal/models"
)

func CurrentAdmin(c echo.Context) (*models.Admin, error) {
	admin, ok := c.Get(adminContextKey).(*models.Admin)
	if !ok || admin == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return admin, nil
}

// SetCurrentAdmin is for tests that call handlers without the full
// middleware chain.
func SetCurrentAdmin(c echo.Context, admin *models.Admin) {
	c.Set(adminContextKey, admin)
}
