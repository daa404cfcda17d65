package models

import "time"

// PersonalMeal: Personel yemeği kaydı (bitmiş tabak üzerinden tüketim)
type PersonalMeal struct {
	ID        uint `gorm:"primaryKey"`
	DishID    uint `gorm:"index;not null"`
	Dish      Dish
	Date      time.Time `gorm:"index;not null"`
	Quantity  float64   `gorm:"not null"` // porsiyon sayısı
	Cost      float64   `gorm:"not null"` // kayıt anındaki tabak maliyetinden
	Note      string    `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
