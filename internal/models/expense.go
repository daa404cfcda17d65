package models

import "time"

type ExpenseCategory struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expense: Yemek maliyeti dışındaki işletme giderleri (kira, personel, fatura vs.)
// Aylık kar/zarar özetinde gıda maliyetiyle birlikte toplanır.
type Expense struct {
	ID          uint `gorm:"primaryKey"`
	CategoryID  uint `gorm:"index;not null"`
	Category    ExpenseCategory
	Date        time.Time `gorm:"index;not null"`
	Amount      float64   `gorm:"not null"`
	Description string    `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
