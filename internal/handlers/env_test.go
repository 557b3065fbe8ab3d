package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/config"
	"github.com/Developer-0210/food-order-server/internal/hash"
	authmw "github.com/Developer-0210/food-order-server/internal/middleware/auth"
	"github.com/Developer-0210/food-order-server/internal/models"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	Orders    *OrderHandler
	Menu      *MenuHandler
	Tables    *TableHandler
	Auth      *AuthHandler
	Superuser *SuperuserHandler
	QR        *QRHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	return &testEnv{
		T:         t,
		E:         echo.New(),
		DB:        db,
		Orders:    &OrderHandler{DB: db},
		Menu:      &MenuHandler{DB: db},
		Tables:    &TableHandler{DB: db},
		Auth:      &AuthHandler{DB: db, JWTSecret: []byte("test-secret")},
		Superuser: &SuperuserHandler{DB: db},
		QR:        &QRHandler{DB: db, PublicMenuURL: "https://menu.test/food"},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asAdmin seeds the context the way the auth middleware would.
func (env *testEnv) asAdmin(c echo.Context, admin *models.Admin) {
	authmw.SetCurrentAdmin(c, admin)
}

func (env *testEnv) createAdmin(email string) *models.Admin {
	env.T.Helper()

	pw, err := hash.HashPassword("password")
	require.NoError(env.T, err)
	secret, err := hash.HashPassword("secret-key")
	require.NoError(env.T, err)

	admin := &models.Admin{
		Name:           "Test Admin",
		Contact:        "1234567890",
		RestaurantName: fmt.Sprintf("Restaurant of %s", email),
		Email:          email,
		HashedPassword: pw,
		SecretKey:      secret,
	}
	require.NoError(env.T, env.DB.Create(admin).Error)
	return admin
}

func (env *testEnv) createTable(admin *models.Admin, number int) *models.Table {
	env.T.Helper()

	table := &models.Table{TableNumber: number, AdminID: admin.ID}
	require.NoError(env.T, env.DB.Create(table).Error)
	return table
}

func (env *testEnv) createMenuItem(admin *models.Admin, name string, prices map[string]float64) *models.MenuItem {
	env.T.Helper()

	item := &models.MenuItem{Name: name, IsAvailable: true, AdminID: admin.ID}
	require.NoError(env.T, env.DB.Create(item).Error)

	for tier, price := range prices {
		row := models.MenuItemQuantityPrice{
			MenuItemID:   item.ID,
			QuantityType: tier,
			Price:        price,
		}
		require.NoError(env.T, env.DB.Create(&row).Error)
	}

	require.NoError(env.T, env.DB.Preload("QuantityPrices").First(item, item.ID).Error)
	return item
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}
