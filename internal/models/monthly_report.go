package models

import "time"

// MonthlyReport: Ay kapanışında alınan kar/zarar anlık görüntüsü.
// Rapor alındıktan sonra defterler değişse bile kapanış değerleri korunur.
type MonthlyReport struct {
	ID         uint      `gorm:"primaryKey"`
	Year       int       `gorm:"index;not null"` // yıl
	Month      int       `gorm:"index;not null"` // ay (1-12)
	ReportDate time.Time `gorm:"index;not null"` // rapor oluşturulma tarihi

	TotalRevenue      float64 `gorm:"default:0"` // toplam gıda satış cirosu
	TotalFoodCost     float64 `gorm:"default:0"` // teorik gıda maliyeti (satış defterinden)
	TotalExpenses     float64 `gorm:"default:0"` // diğer giderler
	NetProfit         float64 `gorm:"default:0"` // net kar
	TheoreticalFCPct  float64 `gorm:"default:0"` // teorik gıda maliyeti %
	RealFCPct         float64 `gorm:"default:0"` // gerçek gıda maliyeti % (sayım bazlı)
	FCDifferential    float64 `gorm:"default:0"` // gerçek - teorik

	// Rapor detayları (JSONB)
	ReportData string `gorm:"type:jsonb"` // ürün bazlı varyans satırları (JSON formatında)

	CreatedAt time.Time
	UpdatedAt time.Time
}
