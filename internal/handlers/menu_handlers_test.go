package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Developer-0210/food-order-server/internal/models"
)

func TestCreateMenuItemWithCategoryAndPrices(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin("a@example.com")

	body := map[string]any{
		"name":               "Paneer Tikka",
		"food_category_name": " Starters ",
		"quantity_prices": []map[string]any{
			{"quantity_type": "half", "price": 120.0},
			{"quantity_type": "full", "price": 220.0},
		},
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/menu", body)
	env.asAdmin(c, admin)
	require.NoError(t, env.Menu.CreateMenuItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, "Paneer Tikka", item.Name)
	require.True(t, item.IsAvailable)
	require.Len(t, item.QuantityPrices, 2)

	// Category name is normalized and created on the fly.
	var category models.FoodCategory
	require.NoError(t, env.DB.Where("admin_id = ?", admin.ID).First(&category).Error)
	require.Equal(t, "starters", category.Name)
	require.NotNil(t, item.FoodCategoryID)
	require.Equal(t, category.ID, *item.FoodCategoryID)
}

func TestCreateMenuItemReusesCategory(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin("a@example.com")

	for _, name := range []string{"Dish A", "Dish B"} {
		body := map[string]any{
			"name":               name,
			"food_category_name": "mains",
			"quantity_prices":    []map[string]any{{"quantity_type": "full", "price": 100.0}},
		}
		rec, c := env.doJSONRequest(http.MethodPost, "/menu", body)
		env.asAdmin(c, admin)
		require.NoError(t, env.Menu.CreateMenuItem(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var count int64
	env.DB.Model(&models.FoodCategory{}).Where("admin_id = ?", admin.ID).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestCreateMenuItemRejectsUnknownTier(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin("a@example.com")

	body := map[string]any{
		"name":            "Dish",
		"quantity_prices": []map[string]any{{"quantity_type": "double", "price": 10.0}},
	}
	_, c := env.doJSONRequest(http.MethodPost, "/menu", body)
	env.asAdmin(c, admin)
	err := env.Menu.CreateMenuItem(c)
	require.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestUpdateMenuItemReplacesPriceRows(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin("a@example.com")
	item := env.createMenuItem(admin, "biryani", map[string]float64{
		models.TierQuarter: 60,
		models.TierHalf:    110,
	})

	body := map[string]any{
		"name":            "biryani special",
		"quantity_prices": []map[string]any{{"quantity_type": "full", "price": 210.0}},
	}
	rec, c := env.doJSONRequest(http.MethodPut, fmt.Sprintf("/menu/%d", item.ID), body)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(item.ID))
	env.asAdmin(c, admin)
	require.NoError(t, env.Menu.UpdateMenuItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.MenuItemQuantityPrice
	require.NoError(t, env.DB.Where("menu_item_id = ?", item.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, models.TierFull, rows[0].QuantityType)
	require.Equal(t, 210.0, rows[0].Price)
}

func TestUpdateMenuItemForeignTenantNotFound(t *testing.T) {
	env := newTestEnv(t)
	adminA := env.createAdmin("a@example.com")
	adminB := env.createAdmin("b@example.com")
	item := env.createMenuItem(adminB, "their dish", map[string]float64{models.TierFull: 100})

	body := map[string]any{"name": "hijacked"}
	_, c := env.doJSONRequest(http.MethodPut, fmt.Sprintf("/menu/%d", item.ID), body)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(item.ID))
	env.asAdmin(c, adminA)
	err := env.Menu.UpdateMenuItem(c)
	require.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestDeleteMenuItemCascadesPrices(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin("a@example.com")
	item := env.createMenuItem(admin, "biryani", map[string]float64{
		models.TierHalf: 110,
		models.TierFull: 199,
	})

	rec, c := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/menu/%d", item.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(item.ID))
	env.asAdmin(c, admin)
	require.NoError(t, env.Menu.DeleteMenuItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items, prices int64
	env.DB.Model(&models.MenuItem{}).Count(&items)
	env.DB.Model(&models.MenuItemQuantityPrice{}).Count(&prices)
	require.Zero(t, items)
	require.Zero(t, prices)
}

func TestPublicMenuByTable(t *testing.T) {
	env := newTestEnv(t)
	adminA := env.createAdmin("a@example.com")
	adminB := env.createAdmin("b@example.com")
	table := env.createTable(adminA, 7)
	env.createMenuItem(adminA, "ours", map[string]float64{models.TierFull: 100})
	env.createMenuItem(adminB, "theirs", map[string]float64{models.TierFull: 100})

	rec, c := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/menu/public/by-table-id/%d", table.ID), nil)
	c.SetParamNames("table_id")
	c.SetParamValues(fmt.Sprint(table.ID))
	require.NoError(t, env.Menu.GetMenuByTable(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, "ours", items[0].Name)
}

func TestPublicMenuUnknownTable(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/menu/public/by-table-id/99", nil)
	c.SetParamNames("table_id")
	c.SetParamValues("99")
	err := env.Menu.GetMenuByTable(c)
	require.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}
