package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/logging"
	authmw "github.com/Developer-0210/food-order-server/internal/middleware/auth"
	"github.com/Developer-0210/food-order-server/internal/models"
	"github.com/Developer-0210/food-order-server/internal/mykafka"
	"github.com/Developer-0210/food-order-server/internal/service/search"
)

type MenuHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

type quantityPriceIn struct {
	QuantityType string  `json:"quantity_type"`
	Price        float64 `json:"price"`
}

type menuItemRequest struct {
	Name             string            `json:"name"`
	IsAvailable      *bool             `json:"is_available"`
	FoodCategoryID   *uint             `json:"food_category_id"`
	FoodCategoryName string            `json:"food_category_name"`
	QuantityPrices   []quantityPriceIn `json:"quantity_prices"`
}

func (h *MenuHandler) CreateMenuItem(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	for _, qp := range req.QuantityPrices {
		if !models.ValidTier(qp.QuantityType) {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("invalid quantity_type %q", qp.QuantityType))
		}
	}

	categoryID, err := h.resolveCategory(admin.ID, req)
	if err != nil {
		return err
	}

	item := models.MenuItem{
		Name:           req.Name,
		IsAvailable:    req.IsAvailable == nil || *req.IsAvailable,
		FoodCategoryID: categoryID,
		AdminID:        admin.ID,
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		for _, qp := range req.QuantityPrices {
			row := models.MenuItemQuantityPrice{
				MenuItemID:   item.ID,
				QuantityType: qp.QuantityType,
				Price:        qp.Price,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	if err := h.DB.Preload("QuantityPrices").First(&item, item.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.indexItem(c, item)
	publish(c, h.Producer, "menu_events", fmt.Sprint(admin.ID), map[string]any{
		"type":     "menu_item_created",
		"admin_id": admin.ID,
		"item_id":  item.ID,
		"name":     item.Name,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) GetMenu(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	var items []models.MenuItem
	if err := h.DB.Preload("QuantityPrices").
		Where("admin_id = ?", admin.ID).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// GetMenuByTable is the public menu behind the QR link.
func (h *MenuHandler) GetMenuByTable(c echo.Context) error {
	table, err := h.lookupTable(c)
	if err != nil {
		return err
	}

	var items []models.MenuItem
	if err := h.DB.Preload("QuantityPrices").
		Where("admin_id = ?", table.AdminID).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetCategoriesByTable(c echo.Context) error {
	table, err := h.lookupTable(c)
	if err != nil {
		return err
	}

	var categories []models.FoodCategory
	if err := h.DB.Where("admin_id = ?", table.AdminID).Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, categories)
}

// UpdateMenuItem replaces the item's price rows wholesale.
func (h *MenuHandler) UpdateMenuItem(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	for _, qp := range req.QuantityPrices {
		if !models.ValidTier(qp.QuantityType) {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("invalid quantity_type %q", qp.QuantityType))
		}
	}

	var item models.MenuItem
	if err := h.DB.Where("id = ? AND admin_id = ?", id, admin.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	categoryID, err := h.resolveCategory(admin.ID, req)
	if err != nil {
		return err
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		item.Name = req.Name
		item.FoodCategoryID = categoryID
		item.IsAvailable = req.IsAvailable == nil || *req.IsAvailable
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		if err := tx.Where("menu_item_id = ?", item.ID).
			Delete(&models.MenuItemQuantityPrice{}).Error; err != nil {
			return err
		}
		for _, qp := range req.QuantityPrices {
			row := models.MenuItemQuantityPrice{
				MenuItemID:   item.ID,
				QuantityType: qp.QuantityType,
				Price:        qp.Price,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	if err := h.DB.Preload("QuantityPrices").First(&item, item.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.indexItem(c, item)
	publish(c, h.Producer, "menu_events", fmt.Sprint(admin.ID), map[string]any{
		"type":     "menu_item_updated",
		"admin_id": admin.ID,
		"item_id":  item.ID,
		"name":     item.Name,
	})

	return c.JSON(http.StatusOK, item)
}

// DeleteMenuItem removes the item and its price rows. Order items that
// reference it keep their price snapshots.
func (h *MenuHandler) DeleteMenuItem(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var item models.MenuItem
	if err := h.DB.Where("id = ? AND admin_id = ?", id, admin.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", item.ID).
			Delete(&models.MenuItemQuantityPrice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	if h.ES != nil {
		if err := search.DeleteMenuItem(c.Request().Context(), h.ES, h.ESIndex, item.ID); err != nil {
			logging.FromContext(c.Request().Context()).Error("es delete", "item_id", item.ID, "err", err)
		}
	}
	publish(c, h.Producer, "menu_events", fmt.Sprint(admin.ID), map[string]any{
		"type":     "menu_item_deleted",
		"admin_id": admin.ID,
		"item_id":  item.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Item %d deleted successfully.", id),
	})
}

func (h *MenuHandler) lookupTable(c echo.Context) (*models.Table, error) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid table id")
	}

	var table models.Table
	if err := h.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "table not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return &table, nil
}

// resolveCategory finds or creates the category named in the request.
// A name wins over an id; both absent leaves the item uncategorized.
func (h *MenuHandler) resolveCategory(adminID uint, req menuItemRequest) (*uint, error) {
	if req.FoodCategoryName != "" {
		name := strings.ToLower(strings.TrimSpace(req.FoodCategoryName))
		var category models.FoodCategory
		err := h.DB.Where("name = ? AND admin_id = ?", name, adminID).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			category = models.FoodCategory{Name: name, AdminID: adminID}
			if err := h.DB.Create(&category).Error; err != nil {
				return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		} else if err != nil {
			return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return &category.ID, nil
	}

	if req.FoodCategoryID != nil {
		var category models.FoodCategory
		err := h.DB.Where("id = ? AND admin_id = ?", *req.FoodCategoryID, adminID).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return &category.ID, nil
	}

	return nil, nil
}

func (h *MenuHandler) indexItem(c echo.Context, item models.MenuItem) {
	if h.ES == nil {
		return
	}

	var category string
	if item.FoodCategoryID != nil {
		var fc models.FoodCategory
		if err := h.DB.First(&fc, *item.FoodCategoryID).Error; err == nil {
			category = fc.Name
		}
	}

	doc := search.MenuDoc{
		ID:          item.ID,
		AdminID:     item.AdminID,
		Name:        item.Name,
		Category:    category,
		IsAvailable: item.IsAvailable,
	}
	if err := search.IndexMenuItem(c.Request().Context(), h.ES, h.ESIndex, doc); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index", "item_id", item.ID, "err", err)
	}
}
