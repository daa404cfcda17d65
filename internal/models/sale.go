package models

import "time"

// Sale: POS satış defteri. "Tabak satıldı" olaylarının tek doğruluk kaynağı.
// Eski dish.sold sayacının yerini alır.
type Sale struct {
	ID           uint `gorm:"primaryKey"`
	DishID       uint `gorm:"index;not null"`
	Dish         Dish
	Date         time.Time `gorm:"index;not null"` // satış tarihi
	QuantitySold float64   `gorm:"not null"`
	UnitCost     float64   `gorm:"not null"` // satış anındaki tabak maliyeti
	UnitRevenue  float64   `gorm:"not null"` // satış anındaki satış fiyatı
	TotalCost    float64   `gorm:"not null"` // UnitCost * QuantitySold
	TotalRevenue float64   `gorm:"not null"` // UnitRevenue * QuantitySold
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
