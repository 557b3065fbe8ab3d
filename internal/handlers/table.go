package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/Developer-0210/food-order-server/internal/middleware/auth"
	"github.com/Developer-0210/food-order-server/internal/models"
)

type TableHandler struct {
	DB *gorm.DB
}

type tableRequest struct {
	TableNumber int `json:"table_number"`
}

func (h *TableHandler) CreateTable(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	var req tableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.TableNumber < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "table_number must be positive")
	}

	var existing models.Table
	err = h.DB.Where("admin_id = ? AND table_number = ?", admin.ID, req.TableNumber).
		First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "table number already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	table := models.Table{TableNumber: req.TableNumber, AdminID: admin.ID}
	if err := h.DB.Create(&table).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, table)
}

func (h *TableHandler) GetTables(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	var tables []models.Table
	if err := h.DB.Where("admin_id = ?", admin.ID).Find(&tables).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) GetAllTables(c echo.Context) error {
	var tables []models.Table
	if err := h.DB.Find(&tables).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) UpdateTable(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid table id")
	}

	var req tableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var table models.Table
	if err := h.DB.Where("id = ? AND admin_id = ?", id, admin.ID).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "table not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	table.TableNumber = req.TableNumber
	if err := h.DB.Save(&table).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, table)
}

func (h *TableHandler) DeleteTable(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid table id")
	}

	var table models.Table
	if err := h.DB.Where("id = ? AND admin_id = ?", id, admin.ID).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "table not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.DB.Delete(&table).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Table %d deleted.", id),
	})
}
