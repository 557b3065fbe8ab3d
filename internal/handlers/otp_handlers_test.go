package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Developer-0210/food-order-server/internal/hash"
	"github.com/Developer-0210/food-order-server/internal/models"
)

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(toEmail, subject, content string) error {
	f.sent = append(f.sent, toEmail)
	return nil
}

func newOTPHandler(env *testEnv) (*OTPHandler, *fakeSender) {
	sender := &fakeSender{}
	return &OTPHandler{DB: env.DB, Sender: sender}, sender
}

func TestSignupOTPFlow(t *testing.T) {
	env := newTestEnv(t)
	h, sender := newOTPHandler(env)

	body := map[string]any{
		"name":            "New Admin",
		"contact":         "999",
		"restaurant_name": "New Place",
		"email":           "new@example.com",
		"password":        "hunter2",
		"secret_key":      "sk",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/otp/request-otp", body)
	require.NoError(t, h.RequestOTP(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.sent, 1)

	// No admin yet, only the staged row.
	var admins int64
	env.DB.Model(&models.Admin{}).Count(&admins)
	require.Zero(t, admins)

	var record models.EmailOTP
	require.NoError(t, env.DB.Where("email = ?", "new@example.com").First(&record).Error)
	require.Len(t, record.OTP, 6)

	rec, c = env.doJSONRequest(http.MethodPost, "/otp/verify-otp", map[string]any{
		"email": "new@example.com",
		"otp":   record.OTP,
	})
	require.NoError(t, h.VerifyOTP(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var admin models.Admin
	require.NoError(t, env.DB.Where("email = ?", "new@example.com").First(&admin).Error)
	require.Equal(t, "New Admin", admin.Name)
	require.True(t, hash.CheckPassword(admin.HashedPassword, "hunter2"))
	require.False(t, admin.IsSuperuser)

	// Staged row is consumed.
	var otps int64
	env.DB.Model(&models.EmailOTP{}).Count(&otps)
	require.Zero(t, otps)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newOTPHandler(env)

	body := map[string]any{"email": "x@example.com", "password": "pw"}
	_, c := env.doJSONRequest(http.MethodPost, "/otp/request-otp", body)
	require.NoError(t, h.RequestOTP(c))

	_, c = env.doJSONRequest(http.MethodPost, "/otp/verify-otp", map[string]any{
		"email": "x@example.com",
		"otp":   "000000",
	})
	err := h.VerifyOTP(c)
	require.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestVerifyOTPExpired(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newOTPHandler(env)

	issued := time.Now().UTC()
	h.Now = func() time.Time { return issued }

	body := map[string]any{"email": "x@example.com", "password": "pw"}
	_, c := env.doJSONRequest(http.MethodPost, "/otp/request-otp", body)
	require.NoError(t, h.RequestOTP(c))

	var record models.EmailOTP
	require.NoError(t, env.DB.Where("email = ?", "x@example.com").First(&record).Error)

	// 3 minutes plus a second later, the code is gone.
	h.Now = func() time.Time { return issued.Add(3*time.Minute + time.Second) }

	_, c = env.doJSONRequest(http.MethodPost, "/otp/verify-otp", map[string]any{
		"email": "x@example.com",
		"otp":   record.OTP,
	})
	err := h.VerifyOTP(c)
	require.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestRequestOTPExistingEmail(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newOTPHandler(env)
	env.createAdmin("taken@example.com")

	body := map[string]any{"email": "taken@example.com", "password": "pw"}
	_, c := env.doJSONRequest(http.MethodPost, "/otp/request-otp", body)
	err := h.RequestOTP(c)
	require.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newOTPHandler(env)
	admin := env.createAdmin("a@example.com")

	_, c := env.doJSONRequest(http.MethodPost, "/otp/request-password-otp", map[string]any{
		"email": "a@example.com",
	})
	require.NoError(t, h.RequestPasswordOTP(c))

	var record models.PasswordOTP
	require.NoError(t, env.DB.Where("email = ?", "a@example.com").First(&record).Error)

	rec, c := env.doJSONRequest(http.MethodPost, "/otp/verify-password-otp", map[string]any{
		"email":      "a@example.com",
		"otp":        record.OTP,
		"password":   "new-password",
		"secret_key": "new-secret",
	})
	require.NoError(t, h.VerifyPasswordOTP(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Admin
	require.NoError(t, env.DB.First(&got, admin.ID).Error)
	require.True(t, hash.CheckPassword(got.HashedPassword, "new-password"))
	require.True(t, hash.CheckPassword(got.SecretKey, "new-secret"))
}

func TestRequestPasswordOTPUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newOTPHandler(env)

	_, c := env.doJSONRequest(http.MethodPost, "/otp/request-password-otp", map[string]any{
		"email": "ghost@example.com",
	})
	err := h.RequestPasswordOTP(c)
	require.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createAdmin("a@example.com")

	rec, c := env.doJSONRequest(http.MethodPost, "/login", map[string]any{
		"email":    "a@example.com",
		"password": "password",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "bearer", resp.TokenType)
}

func TestLoginBadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createAdmin("a@example.com")

	_, c := env.doJSONRequest(http.MethodPost, "/login", map[string]any{
		"email":    "a@example.com",
		"password": "wrong",
	})
	err := env.Auth.Login(c)
	require.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))
}
