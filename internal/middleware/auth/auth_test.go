package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/config"
	"github.com/Developer-0210/food-order-server/internal/models"
)

func setup(t *testing.T) (*Middleware, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return &Middleware{DB: db, JWTSecret: []byte("test-secret")}, db
}

func request(header string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireAdminRoundTrip(t *testing.T) {
	mw, db := setup(t)
	admin := models.Admin{
		Name: "A", Contact: "1", RestaurantName: "R",
		Email: "a@example.com", HashedPassword: "x",
	}
	require.NoError(t, db.Create(&admin).Error)

	token, err := SignAccessToken(admin.Email, mw.JWTSecret)
	require.NoError(t, err)

	c := request("Bearer " + token)
	handler := mw.RequireAdmin(func(c echo.Context) error {
		got, err := CurrentAdmin(c)
		require.NoError(t, err)
		require.Equal(t, admin.ID, got.ID)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
}

func TestRequireAdminRejectsMissingHeader(t *testing.T) {
	mw, _ := setup(t)

	handler := mw.RequireAdmin(func(c echo.Context) error { return nil })
	err := handler(request(""))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAdminRejectsForgedToken(t *testing.T) {
	mw, db := setup(t)
	admin := models.Admin{
		Name: "A", Contact: "1", RestaurantName: "R",
		Email: "a@example.com", HashedPassword: "x",
	}
	require.NoError(t, db.Create(&admin).Error)

	forged, err := SignAccessToken(admin.Email, []byte("other-secret"))
	require.NoError(t, err)

	handler := mw.RequireAdmin(func(c echo.Context) error { return nil })
	err = handler(request("Bearer " + forged))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAdminRejectsUnknownAccount(t *testing.T) {
	mw, _ := setup(t)

	token, err := SignAccessToken("ghost@example.com", mw.JWTSecret)
	require.NoError(t, err)

	handler := mw.RequireAdmin(func(c echo.Context) error { return nil })
	err = handler(request("Bearer " + token))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireSuperuser(t *testing.T) {
	mw, db := setup(t)
	admin := models.Admin{
		Name: "A", Contact: "1", RestaurantName: "R",
		Email: "a@example.com", HashedPassword: "x",
	}
	require.NoError(t, db.Create(&admin).Error)

	token, err := SignAccessToken(admin.Email, mw.JWTSecret)
	require.NoError(t, err)

	handler := mw.RequireSuperuser(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	err = handler(request("Bearer " + token))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)

	require.NoError(t, db.Model(&admin).Update("is_superuser", true).Error)
	require.NoError(t, handler(request("Bearer "+token)))
}
