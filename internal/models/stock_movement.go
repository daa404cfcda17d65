package models

import "time"

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

type MovementSource string

const (
	SourceOrder        MovementSource = "order"
	SourceSale         MovementSource = "sale"
	SourceWaste        MovementSource = "waste"
	SourcePersonalMeal MovementSource = "personal_meal"
	SourceAdjustment   MovementSource = "adjustment"
)

// StockMovement: Stok hareket defteri (append-only, güncellenmez)
type StockMovement struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Type      MovementType   `gorm:"size:10;not null"` // in / out
	Quantity  float64        `gorm:"not null"`
	UnitPrice float64        `gorm:"not null"`
	TotalCost float64        `gorm:"not null"` // Quantity * UnitPrice
	Source    MovementSource `gorm:"size:20;not null"`
	Date      time.Time      `gorm:"index;not null"` // hareket tarihi (gün hassasiyeti)
	Note      string         `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
