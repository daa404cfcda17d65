package models

import "time"

// Dish: Satışa sunulan tabak. Malzemeleri ürün veya reçete referansı olabilir.
type Dish struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"size:100;not null;unique"`
	TotalCost    float64 `gorm:"not null;default:0"` // nominal maliyet (malzeme snapshot'larının toplamı)
	SellingPrice float64 `gorm:"not null;default:0"` // KDV dahil satış fiyatı
	VATRate      float64 `gorm:"not null;default:10"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Ingredients []DishIngredient `gorm:"foreignKey:DishID;constraint:OnDelete:CASCADE"`
}

// NetPrice: KDV hariç satış fiyatı
func (d Dish) NetPrice() float64 {
	return d.SellingPrice / (1 + d.VATRate/100)
}

// DishIngredient: Tabak malzemesi. ProductID ve RecipeID'den tam olarak biri dolu olmalı
// (oluşturma sırasında doğrulanır, motor tarafında Ref() ile ayrıştırılır).
type DishIngredient struct {
	ID        uint  `gorm:"primaryKey"`
	DishID    uint  `gorm:"index;not null"`
	ProductID *uint `gorm:"index"`
	Product   *Product
	RecipeID  *uint `gorm:"index"`
	Recipe    *Recipe
	Quantity  float64 `gorm:"not null"`
	Cost      float64 `gorm:"not null"` // eklenme anındaki nominal maliyet (snapshot)
	CreatedAt time.Time
	UpdatedAt time.Time
}
