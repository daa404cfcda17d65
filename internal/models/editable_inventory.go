package models

import "time"

// EditableInventory: Elle girilen fiziksel sayım (ürün başına tek satır).
// Dönem bazlı tutulmaz: "en son sayılan değerler" olarak yorumlanır, operatörün
// ayda bir kez girmesi beklenir. Eşzamanlı düzenlemede son yazan kazanır.
type EditableInventory struct {
	ID              uint `gorm:"primaryKey"`
	ProductID       uint `gorm:"uniqueIndex;not null"`
	Product         Product
	InitialQuantity float64 `gorm:"not null;default:0"` // dönem başı sayım
	FinalQuantity   float64 `gorm:"not null;default:0"` // dönem sonu sayım
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
