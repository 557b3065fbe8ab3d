package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/models"
)

// QRHandler renders the printable QR code a table card carries. The
// encoded URL opens the public menu scoped to that table.
type QRHandler struct {
	DB *gorm.DB
	// PublicMenuURL is the customer-facing frontend base, e.g.
	// "https://example.com/food". The table id is appended as a query
	// parameter.
	PublicMenuURL string
}

func (h *QRHandler) GenerateQR(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid table id")
	}

	var table models.Table
	if err := h.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "table not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var admin models.Admin
	if err := h.DB.First(&admin, table.AdminID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "table not linked to a restaurant")
	}

	url := fmt.Sprintf("%s?table_id=%d", h.PublicMenuURL, table.ID)
	png, err := qrcode.Encode(url, qrcode.Medium, 410)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=table_%d_qr.png", table.TableNumber))
	return c.Blob(http.StatusOK, "image/png", png)
}
