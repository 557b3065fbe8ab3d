package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/models"
)

const adminContextKey = "currentAdmin"

type Middleware struct {
	DB        *gorm.DB
	JWTSecret []byte
}

// RequireAdmin resolves the bearer token to an admin account and puts
// it into the request context.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := bearerToken(c)
		if err != nil {
			return err
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		email, ok := claims["sub"].(string)
		if !ok || email == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
		}

		var admin models.Admin
		if err := m.DB.Where("email = ?", email).First(&admin).Error; err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(adminContextKey, &admin)
		return next(c)
	}
}

// SignAccessToken issues the HS256 access token handed out at login.
func SignAccessToken(email string, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(60 * time.Minute).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header || raw == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "malformed authorization header")
	}
	return raw, nil
}
