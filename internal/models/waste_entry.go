package models

import "time"

// WasteEntry: Ürün zayiatı kaydı (günlük, atılan her parti için bir satır)
type WasteEntry struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Date      time.Time `gorm:"index;not null"`    // zayiat tarihi
	Quantity  float64   `gorm:"not null"`          // zayiat miktarı
	Cost      float64   `gorm:"not null"`          // zayiat maliyeti (kayıt anındaki birim fiyattan)
	Note      string    `gorm:"size:500;not null"` // zorunlu: sebep / kim sebep oldu
	CreatedAt time.Time
	UpdatedAt time.Time
}
