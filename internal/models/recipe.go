package models

import "time"

// Recipe: Maliyet şablonu (ara ürün). Kendi stoğu yok, ürünlerden oluşur.
// TotalCost her malzeme değişikliğinde yeniden hesaplanan nominal toplam.
type Recipe struct {
	ID                  uint    `gorm:"primaryKey"`
	Name                string  `gorm:"size:100;not null;unique"`
	WeightAdjustmentPct float64 `gorm:"not null;default:0"` // pişirme kaybı/kazancı %, -100'den büyük olmalı
	TotalCost           float64 `gorm:"not null;default:0"` // nominal maliyet (fire/ağırlık düzeltmesi yok)
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeIngredient: Reçetedeki her ürün satırı.
// Cost eklendiği andaki ürün fiyatından alınan anlık görüntüdür, sonradan güncellenmez.
type RecipeIngredient struct {
	ID                  uint `gorm:"primaryKey"`
	RecipeID            uint `gorm:"index;not null"`
	ProductID           uint `gorm:"index;not null"`
	Product             Product
	Quantity            float64  `gorm:"not null"`
	Cost                float64  `gorm:"not null"` // eklenme anındaki nominal maliyet (snapshot)
	WeightAdjustmentPct *float64 // satır bazlı düzeltme (ör: doğrama kaybı), nil ise yok
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
