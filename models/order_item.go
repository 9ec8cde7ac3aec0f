package models

import "time"

// OrderItem captures the dish price at order time. Later edits to the dish
// never touch UnitPrice.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	DishID    uint      `gorm:"index;not null" json:"dish_id"`
	Dish      Dish      `gorm:"foreignKey:DishID" json:"dish"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
}
