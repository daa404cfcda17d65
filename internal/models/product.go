package models

import "time"

// Ürün birimleri (kapalı küme)
const (
	UnitKilogram  = "kg"
	UnitGram      = "gr"
	UnitLitre     = "lt"
	UnitMililitre = "ml"
	UnitAdet      = "adet"
)

// ValidUnits: ürün oluştururken kabul edilen birimler
var ValidUnits = map[string]bool{
	UnitKilogram:  true,
	UnitGram:      true,
	UnitLitre:     true,
	UnitMililitre: true,
	UnitAdet:      true,
}

type Product struct {
	ID           uint    `gorm:"primaryKey"`
	Code         string  `gorm:"size:50;index"` // Stok kodu (tedarikçi faturalarındaki kodlarla eşleşme için)
	Name         string  `gorm:"size:100;not null;unique"`
	Unit         string  `gorm:"size:20;not null"`   // kg, gr, lt, ml, adet
	Quantity     float64 `gorm:"not null;default:0"` // eldeki miktar (bilgi amaçlı, esas olan sayımlar)
	PricePerUnit float64 `gorm:"not null"`           // birim alış fiyatı (KDV dahil)
	WastePct     float64 `gorm:"not null;default:0"` // fire oranı %, 0 <= w < 100
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
