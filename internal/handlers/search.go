package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/models"
	"github.com/Developer-0210/food-order-server/internal/service/search"
	"github.com/Developer-0210/food-order-server/internal/util"
)

// SearchHandler is the public menu search: a customer at a table
// fuzzy-searches the owning restaurant's indexed items.
type SearchHandler struct {
	DB    *gorm.DB
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	tableID, err := strconv.Atoi(c.QueryParam("table_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid table id")
	}

	var table models.Table
	if err := h.DB.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "table not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 10)
	from, limit := util.Calculate(page, size)

	total, items, err := search.Search(c.Request().Context(), h.ES, h.Index, table.AdminID, q, from, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "items": items})
}
