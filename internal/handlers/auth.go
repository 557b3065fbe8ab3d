package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/hash"
	authmw "github.com/Developer-0210/food-order-server/internal/middleware/auth"
	"github.com/Developer-0210/food-order-server/internal/models"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var admin models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !hash.CheckPassword(admin.HashedPassword, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := authmw.SignAccessToken(admin.Email, h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user": echo.Map{
			"id":           admin.ID,
			"email":        admin.Email,
			"name":         admin.Name,
			"is_superuser": admin.IsSuperuser,
		},
	})
}
