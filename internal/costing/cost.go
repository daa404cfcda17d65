// Package costing: Maliyet ve stok mutabakat motoru.
//
// Bu paket saf hesaplama katmanıdır: veritabanına veya ağa çıkmaz, handler'ların
// çektiği kayıt dilimlerini alır ve düz sonuç struct'ları döner. Aynı defter
// dilimiyle iki kez çağrıldığında aynı sonucu verir.
package costing

import (
	"errors"
	"fmt"

	"mutfak-backend/internal/models"
)

// Varsayılan hedef gıda maliyeti yüzdesi (önerilen fiyat hesabı için)
const DefaultTargetFoodCostPct = 30.0

// Alan hataları: mantıken imkansız maliyet tabanı, sessizce düzeltilmez,
// çağırana (form validasyonu / 400) yansıtılır.
var (
	ErrWasteOutOfRange      = errors.New("fire oranı %0 (dahil) ile %100 (hariç) arasında olmalı")
	ErrWeightAdjustmentLow  = errors.New("ağırlık düzeltmesi %-100 veya daha düşük olamaz")
	ErrTargetFoodCostPct    = errors.New("hedef gıda maliyeti %0 ile %100 arasında olmalı (sınırlar hariç)")
)

// RealUnitCost: Ürünün fire düzeltmeli gerçek birim maliyeti.
// pricePerUnit / ((100 - waste) / 100). Kullanılabilir pay kesinlikle pozitif
// olmalı; waste >= 100 sıfıra bölme demektir ve reddedilir.
func RealUnitCost(p models.Product) (float64, error) {
	if p.WastePct < 0 || p.WastePct >= 100 {
		return 0, fmt.Errorf("ürün %q: %w", p.Name, ErrWasteOutOfRange)
	}
	usable := (100 - p.WastePct) / 100
	return p.PricePerUnit / usable, nil
}

// RealRecipeUnitCost: Reçetenin ağırlık düzeltmeli gerçek birim maliyeti.
// totalCost / (1 + weightAdjustment/100). Düzeltme -100 veya altıysa verim
// çarpanı pozitif olmaz, reddedilir.
func RealRecipeUnitCost(r models.Recipe) (float64, error) {
	if r.WeightAdjustmentPct <= -100 {
		return 0, fmt.Errorf("reçete %q: %w", r.Name, ErrWeightAdjustmentLow)
	}
	yield := 1 + r.WeightAdjustmentPct/100
	return r.TotalCost / yield, nil
}

// SuggestedPrice: Hedef gıda maliyeti yüzdesine göre önerilen satış fiyatı.
// realCost / (target/100). Hedef (0, 100) aralığında olmalı.
func SuggestedPrice(realCost, targetFoodCostPct float64) (float64, error) {
	if targetFoodCostPct <= 0 || targetFoodCostPct >= 100 {
		return 0, ErrTargetFoodCostPct
	}
	return realCost / (targetFoodCostPct / 100), nil
}

// FoodCostPercentage: Maliyetin net fiyata oranı (%).
// netPrice <= 0 ise hata yerine 0 döner; çağıran sıfır fiyatlı satıştan gelen
// %0'ı "bedava" değil "bilinmiyor" olarak yorumlamalı.
func FoodCostPercentage(cost, netPrice float64) float64 {
	if netPrice <= 0 {
		return 0
	}
	return cost / netPrice * 100
}
