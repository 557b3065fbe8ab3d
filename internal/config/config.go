package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Developer-0210/food-order-server/internal/models"
)

type Config struct {
	DB_HOST          string
	DB_PORT          string
	DB_USER          string
	DB_PASSWORD      string
	DB_NAME          string
	ES_URL           string
	ES_USER          string
	ES_PASSWORD      string
	JWT_SECRET       string
	KAFKA_ADDRESS    string
	SENDGRID_API_KEY string
	FROM_EMAIL       string
	PUBLIC_MENU_URL  string
	LOG_LEVEL        string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:          os.Getenv("DB_HOST"),
		DB_PORT:          os.Getenv("DB_PORT"),
		DB_USER:          os.Getenv("DB_USER"),
		DB_PASSWORD:      os.Getenv("DB_PASSWORD"),
		DB_NAME:          os.Getenv("DB_NAME"),
		ES_URL:           os.Getenv("ES_URL"),
		ES_USER:          os.Getenv("ES_USER"),
		ES_PASSWORD:      os.Getenv("ES_PASSWORD"),
		JWT_SECRET:       os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS:    os.Getenv("KAFKA_ADDRESS"),
		SENDGRID_API_KEY: os.Getenv("SENDGRID_API_KEY"),
		FROM_EMAIL:       os.Getenv("FROM_EMAIL"),
		PUBLIC_MENU_URL:  os.Getenv("PUBLIC_MENU_URL"),
		LOG_LEVEL:        os.Getenv("LOG_LEVEL"),
	}

	return config, nil
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.FoodCategory{},
		&models.MenuItem{},
		&models.MenuItemQuantityPrice{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.EmailOTP{},
		&models.PasswordOTP{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
