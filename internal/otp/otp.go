package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/models"
)

// TTL is how long a code stays valid after it was issued.
const TTL = 3 * time.Minute

// Generate returns a 6-digit numeric code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func Expired(createdAt time.Time, now time.Time) bool {
	return now.Sub(createdAt) > TTL
}

// SaveSignupOTP upserts the staged-signup row for an email. Repeat
// requests refresh the code and the staged account fields.
func SaveSignupOTP(db *gorm.DB, rec *models.EmailOTP, now time.Time) error {
	var existing models.EmailOTP
	err := db.Where("email = ?", rec.Email).First(&existing).Error
	if err == nil {
		existing.OTP = rec.OTP
		existing.CreatedAt = now
		if rec.Name != "" {
			existing.Name = rec.Name
		}
		if rec.Contact != "" {
			existing.Contact = rec.Contact
		}
		if rec.RestaurantName != "" {
			existing.RestaurantName = rec.RestaurantName
		}
		if rec.HashedPassword != "" {
			existing.HashedPassword = rec.HashedPassword
		}
		if rec.SecretKey != "" {
			existing.SecretKey = rec.SecretKey
		}
		return db.Save(&existing).Error
	}
	rec.CreatedAt = now
	return db.Create(rec).Error
}

func SavePasswordOTP(db *gorm.DB, email, code string, now time.Time) error {
	var existing models.PasswordOTP
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		existing.OTP = code
		existing.CreatedAt = now
		return db.Save(&existing).Error
	}
	return db.Create(&models.PasswordOTP{Email: email, OTP: code, CreatedAt: now}).Error
}

// DeleteExpired purges stale rows from both OTP tables.
func DeleteExpired(db *gorm.DB, now time.Time) {
	threshold := now.Add(-TTL)
	db.Where("created_at < ?", threshold).Delete(&models.EmailOTP{})
	db.Where("created_at < ?", threshold).Delete(&models.PasswordOTP{})
}
