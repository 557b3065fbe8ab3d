package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/hash"
	"github.com/Developer-0210/food-order-server/internal/models"
)

// SuperuserHandler manages regular admin accounts. All routes except
// Signup sit behind the superuser gate.
type SuperuserHandler struct {
	DB *gorm.DB
}

type adminRequest struct {
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	RestaurantName string `json:"restaurant_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	SecretKey      string `json:"secret_key"`
	IsSuperuser    bool   `json:"is_superuser"`
}

func (h *SuperuserHandler) buildAdmin(req adminRequest) (*models.Admin, error) {
	hashedPW, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	hashedSecret, err := hash.HashPassword(req.SecretKey)
	if err != nil {
		return nil, err
	}
	return &models.Admin{
		Name:           req.Name,
		Contact:        req.Contact,
		RestaurantName: req.RestaurantName,
		Email:          req.Email,
		HashedPassword: hashedPW,
		SecretKey:      hashedSecret,
		IsSuperuser:    req.IsSuperuser,
	}, nil
}

func (h *SuperuserHandler) CreateAdmin(c echo.Context) error {
	var req adminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var existing models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "admin with this email already exists")
	}

	admin, err := h.buildAdmin(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Create(admin).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, admin)
}

func (h *SuperuserHandler) ListAdmins(c echo.Context) error {
	var admins []models.Admin
	if err := h.DB.Where("is_superuser = ?", false).Find(&admins).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, admins)
}

func (h *SuperuserHandler) UpdateAdmin(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid admin id")
	}

	var req adminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var admin models.Admin
	if err := h.DB.Where("id = ? AND is_superuser = ?", id, false).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "admin not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hashedPW, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	hashedSecret, err := hash.HashPassword(req.SecretKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	admin.Name = req.Name
	admin.Contact = req.Contact
	admin.RestaurantName = req.RestaurantName
	admin.Email = req.Email
	admin.HashedPassword = hashedPW
	admin.SecretKey = hashedSecret

	if err := h.DB.Save(&admin).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, admin)
}

func (h *SuperuserHandler) DeleteAdmin(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid admin id")
	}

	var admin models.Admin
	if err := h.DB.Where("id = ? AND is_superuser = ?", id, false).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "admin not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Tenant teardown: everything the admin owns goes with it.
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("admin_id = ?", admin.ID).
			Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("admin_id = ?", admin.ID).Delete(&models.Order{}).Error; err != nil {
			return err
		}

		var itemIDs []uint
		if err := tx.Model(&models.MenuItem{}).Where("admin_id = ?", admin.ID).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("menu_item_id IN ?", itemIDs).
				Delete(&models.MenuItemQuantityPrice{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("admin_id = ?", admin.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("admin_id = ?", admin.ID).Delete(&models.FoodCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("admin_id = ?", admin.ID).Delete(&models.Table{}).Error; err != nil {
			return err
		}
		return tx.Delete(&admin).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Admin with ID %d deleted.", id),
	})
}

// Signup is the open, OTP-less registration endpoint.
func (h *SuperuserHandler) Signup(c echo.Context) error {
	var req adminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var existing models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "admin with this email already exists")
	}

	req.IsSuperuser = false
	admin, err := h.buildAdmin(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Create(admin).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, admin)
}
