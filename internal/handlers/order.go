package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/hash"
	authmw "github.com/Developer-0210/food-order-server/internal/middleware/auth"
	"github.com/Developer-0210/food-order-server/internal/models"
	"github.com/Developer-0210/food-order-server/internal/mykafka"
	"github.com/Developer-0210/food-order-server/internal/util"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type orderLine struct {
	MenuItemID   uint   `json:"menu_item_id"`
	Quantity     int    `json:"quantity"`
	SelectedType string `json:"selected_type"`
}

type placeOrderRequest struct {
	TableID uint        `json:"table_id"`
	Items   []orderLine `json:"items"`
}

// PlaceOrder is the public, unauthenticated ordering endpoint. Tenant
// scoping comes entirely from the table id: the resolved table's admin
// owns the order, and every line lookup is restricted to that admin's
// catalog so cross-tenant item ids never match.
//
// The order header is committed before the lines are validated, so a
// request whose lines all fail still leaves an empty order behind, and
// an unpriced tier aborts the request without rolling the header back.
// Both behaviors are intentional and covered by tests.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	for _, line := range req.Items {
		if !models.ValidTier(line.SelectedType) {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("invalid selected_type %q", line.SelectedType))
		}
		if line.Quantity < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "quantity must be positive")
		}
	}

	var table models.Table
	if err := h.DB.Where("id = ?", req.TableID).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid table id")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	order := models.Order{
		TableID: table.ID,
		AdminID: table.AdminID,
		Status:  "pending",
	}
	if err := h.DB.Create(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var total float64
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		for _, line := range req.Items {
			var item models.MenuItem
			err := tx.Preload("QuantityPrices").
				Where("id = ? AND admin_id = ?", line.MenuItemID, table.AdminID).
				First(&item).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Stale client catalogs are tolerated: the line is
				// dropped, the rest of the order goes through.
				continue
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}

			unitPrice, ok := item.PriceFor(line.SelectedType)
			if !ok {
				return echo.NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("selected quantity type %q not available for item %q", line.SelectedType, item.Name))
			}

			total += unitPrice * float64(line.Quantity)

			oi := models.OrderItem{
				OrderID:      order.ID,
				MenuItemID:   item.ID,
				Quantity:     line.Quantity,
				SelectedType: line.SelectedType,
				PriceAtOrder: unitPrice,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("total_amount", total).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return nil
	})
	if txErr != nil {
		if he, ok := txErr.(*echo.HTTPError); ok {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":         "order_created",
		"order_id":     order.ID,
		"admin_id":     table.AdminID,
		"table_number": table.TableNumber,
		"total":        total,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Order placed successfully",
		"order_id":     order.ID,
		"table_number": table.TableNumber,
	})
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 20)
	offset, limit := util.Calculate(page, size)

	var orders []models.Order
	if err := h.DB.
		Preload("Items").
		Preload("Items.MenuItem").
		Preload("Items.MenuItem.QuantityPrices").
		Where("admin_id = ?", admin.ID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.withTableNumbers(orders))
}

// PollNewOrders returns orders created in the last 10 seconds, the
// dashboard polls it for the new-order chime.
func (h *OrderHandler) PollNewOrders(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	recent := time.Now().UTC().Add(-10 * time.Second)
	var orders []models.Order
	if err := h.DB.
		Where("admin_id = ? AND created_at >= ?", admin.ID, recent).
		Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]echo.Map, 0, len(orders))
	for _, o := range orders {
		var table models.Table
		h.DB.First(&table, o.TableID)
		out = append(out, echo.Map{
			"id":           o.ID,
			"table_number": table.TableNumber,
			"created_at":   o.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": out})
}

// GetHistory is GetOrders behind an extra secret-key check.
func (h *OrderHandler) GetHistory(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	secret := c.QueryParam("secret_key")
	if secret == "" || !hash.CheckPassword(admin.SecretKey, secret) {
		return echo.NewHTTPError(http.StatusForbidden, "invalid secret key")
	}

	var orders []models.Order
	if err := h.DB.
		Preload("Items").
		Preload("Items.MenuItem").
		Preload("Items.MenuItem.QuantityPrices").
		Where("admin_id = ?", admin.ID).
		Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.withTableNumbers(orders))
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	status := c.QueryParam("status")
	if status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND admin_id = ?", id, admin.ID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Status is free text, no transition rules are enforced.
	order.Status = status
	if et := c.QueryParam("estimated_time"); et != "" {
		order.EstimatedTime = &et
	}

	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":     "order_status_updated",
		"order_id": order.ID,
		"admin_id": admin.ID,
		"status":   status,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Order %d updated to '%s'.", id, status),
	})
}

// DeleteOrder removes the order and its items in one transaction.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	admin, err := authmw.CurrentAdmin(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND admin_id = ?", id, admin.ID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":     "order_deleted",
		"order_id": order.ID,
		"admin_id": admin.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Order %d deleted successfully", id),
	})
}

type orderOut struct {
	models.Order
	TableNumber int `json:"table_number"`
}

func (h *OrderHandler) withTableNumbers(orders []models.Order) []orderOut {
	out := make([]orderOut, 0, len(orders))
	for _, o := range orders {
		var table models.Table
		h.DB.First(&table, o.TableID)
		out = append(out, orderOut{Order: o, TableNumber: table.TableNumber})
	}
	return out
}
