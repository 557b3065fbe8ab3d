package models

import (
	"time"
)

// Quantity tiers a menu item can be priced at.
const (
	TierQuarter = "quarter"
	TierHalf    = "half"
	TierFull    = "full"
)

func ValidTier(t string) bool {
	return t == TierQuarter || t == TierHalf || t == TierFull
}

// Admin is a restaurant account. Every table, menu item and order
// belongs to exactly one admin.
type Admin struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"not null"                 json:"name"`
	Contact        string `gorm:"not null"                 json:"contact"`
	RestaurantName string `gorm:"not null"                 json:"restaurant_name"`
	Email          string `gorm:"uniqueIndex;not null"     json:"email"`
	HashedPassword string `gorm:"not null"                 json:"-"`
	SecretKey      string `json:"-"`
	IsSuperuser    bool   `gorm:"default:false"            json:"is_superuser"`
}

type FoodCategory struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"not null"                 json:"name"`
	AdminID uint   `gorm:"index;not null"           json:"admin_id"`
}

type MenuItem struct {
	ID             uint                    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string                  `gorm:"not null"                 json:"name"`
	IsAvailable    bool                    `gorm:"not null;default:true"    json:"is_available"`
	FoodCategoryID *uint                   `gorm:"index"                    json:"food_category_id"`
	AdminID        uint                    `gorm:"index;not null"           json:"admin_id"`
	QuantityPrices []MenuItemQuantityPrice `gorm:"foreignKey:MenuItemID"    json:"quantity_prices"`
}

// PriceFor returns the unit price for a tier, or false if the item
// is not priced at that tier.
func (m *MenuItem) PriceFor(tier string) (float64, bool) {
	for _, qp := range m.QuantityPrices {
		if qp.QuantityType == tier {
			return qp.Price, true
		}
	}
	return 0, false
}

// MenuItemQuantityPrice is one (tier, price) row of an item.
// At most one row per (menu_item_id, quantity_type).
type MenuItemQuantityPrice struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"                      json:"id"`
	MenuItemID   uint    `gorm:"not null;uniqueIndex:uq_menuitem_quantitytype" json:"menu_item_id"`
	QuantityType string  `gorm:"not null;uniqueIndex:uq_menuitem_quantitytype" json:"quantity_type"`
	Price        float64 `gorm:"not null"                                      json:"price"`
}

// Table number is unique per admin, not globally.
type Table struct {
	ID          uint `gorm:"primaryKey;autoIncrement"            json:"id"`
	TableNumber int  `gorm:"not null;uniqueIndex:uq_admin_table" json:"table_number"`
	AdminID     uint `gorm:"not null;uniqueIndex:uq_admin_table" json:"admin_id"`
}

type Order struct {
	ID            uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	TableID       uint        `gorm:"index;not null"           json:"table_id"`
	AdminID       uint        `gorm:"index;not null"           json:"admin_id"`
	Status        string      `gorm:"not null;default:pending" json:"status"`
	EstimatedTime *string     `json:"estimated_time"`
	TotalAmount   float64     `gorm:"not null;default:0"       json:"total_amount"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
}

// OrderItem records PriceAtOrder as a snapshot of the catalog price at
// placement time. It never changes after the row is written, whatever
// happens to the menu item later.
type OrderItem struct {
	ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      uint     `gorm:"index;not null"           json:"order_id"`
	MenuItemID   uint     `gorm:"not null"                 json:"menu_item_id"`
	Quantity     int      `gorm:"not null"                 json:"quantity"`
	SelectedType string   `gorm:"not null"                 json:"selected_type"`
	PriceAtOrder float64  `gorm:"not null"                 json:"price_at_order"`
	MenuItem     MenuItem `gorm:"foreignKey:MenuItemID"    json:"menu_item"`
}

// EmailOTP stages a signup: the admin row is only created after the
// code is verified, so the fields of the future account ride along.
type EmailOTP struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null"     json:"email"`
	OTP       string    `gorm:"not null"                 json:"-"`
	CreatedAt time.Time `json:"created_at"`

	Name           string `json:"name"`
	Contact        string `json:"contact"`
	RestaurantName string `json:"restaurant_name"`
	HashedPassword string `json:"-"`
	SecretKey      string `json:"-"`
}

type PasswordOTP struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null"     json:"email"`
	OTP       string    `gorm:"not null"                 json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
