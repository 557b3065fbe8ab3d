package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/hash"
	"github.com/Developer-0210/food-order-server/internal/logging"
	"github.com/Developer-0210/food-order-server/internal/mail"
	"github.com/Developer-0210/food-order-server/internal/models"
	"github.com/Developer-0210/food-order-server/internal/otp"
)

type OTPHandler struct {
	DB     *gorm.DB
	Sender mail.Sender
	Now    func() time.Time
}

func (h *OTPHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

type signupRequest struct {
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	RestaurantName string `json:"restaurant_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	SecretKey      string `json:"secret_key"`
}

// RequestOTP stages a signup and mails the code. The admin row is not
// created until the code is verified.
func (h *OTPHandler) RequestOTP(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	otp.DeleteExpired(h.DB, h.now())

	var existing models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
	}

	code, err := otp.Generate()
	if err != nil {
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

	rec := models.EmailOTP{
		Email:          req.Email,
		OTP:            code,
		Name:           req.Name,
		Contact:        req.Contact,
		RestaurantName: req.RestaurantName,
		HashedPassword: hashedPW,
		SecretKey:      hashedSecret,
	}
	if err := otp.SaveSignupOTP(h.DB, &rec, h.now()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.sendCode(c, req.Email, "Your OTP for Signup", code)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "OTP sent successfully. Please verify.",
	})
}

// VerifyOTP finishes the signup: matches the code and creates the
// admin from the staged fields.
func (h *OTPHandler) VerifyOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	otp.DeleteExpired(h.DB, h.now())

	var record models.EmailOTP
	err := h.DB.Where("email = ? AND otp = ?", req.Email, req.OTP).First(&record).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired OTP")
	}

	var existing models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "admin already exists")
	}

	admin := models.Admin{
		Name:           record.Name,
		Email:          record.Email,
		Contact:        record.Contact,
		RestaurantName: record.RestaurantName,
		HashedPassword: record.HashedPassword,
		SecretKey:      record.SecretKey,
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Admin created successfully. Please login.",
	})
}

func (h *OTPHandler) RequestPasswordOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	otp.DeleteExpired(h.DB, h.now())

	var admin models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "email not registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	code, err := otp.Generate()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := otp.SavePasswordOTP(h.DB, req.Email, code, h.now()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.sendCode(c, req.Email, "Your OTP for Password Change", code)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "OTP sent successfully. Please verify.",
	})
}

// VerifyPasswordOTP rewrites both the password and the secret key.
func (h *OTPHandler) VerifyPasswordOTP(c echo.Context) error {
	var req struct {
		Email     string `json:"email"`
		OTP       string `json:"otp"`
		Password  string `json:"password"`
		SecretKey string `json:"secret_key"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	otp.DeleteExpired(h.DB, h.now())

	var record models.PasswordOTP
	err := h.DB.Where("email = ? AND otp = ?", req.Email, req.OTP).First(&record).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired OTP")
	}

	var admin models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "admin not found")
	}

	hashedPW, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	hashedSecret, err := hash.HashPassword(req.SecretKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	admin.HashedPassword = hashedPW
	admin.SecretKey = hashedSecret

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&admin).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Password and secret key changed successfully. Please login.",
	})
}

func (h *OTPHandler) sendCode(c echo.Context, email, subject, code string) {
	content := fmt.Sprintf(`Hi,

Your One-Time Password (OTP) is: %s

This OTP is valid for 3 minutes.

If you did not initiate this request, please ignore this email.`, code)

	if err := h.Sender.Send(email, subject, content); err != nil {
		// The code is already stored, a resend request recovers.
		logging.FromContext(c.Request().Context()).Error("otp mail", "err", err)
	}
}
