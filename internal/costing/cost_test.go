package costing

import (
	"errors"
	"math"
	"testing"

	"mutfak-backend/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestRealUnitCostWasteIncreasesCost(t *testing.T) {
	p := models.Product{Name: "Domates", PricePerUnit: 1.20, WastePct: 2}
	got, err := RealUnitCost(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1.2245) > 0.0001 {
		t.Fatalf("RealUnitCost = %v, want ~1.2245", got)
	}
	if got < p.PricePerUnit {
		t.Fatalf("fire maliyeti düşüremez: %v < %v", got, p.PricePerUnit)
	}
}

func TestRealUnitCostZeroWasteEqualsNominal(t *testing.T) {
	p := models.Product{Name: "Tuz", PricePerUnit: 3.50, WastePct: 0}
	got, err := RealUnitCost(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 3.50) {
		t.Fatalf("RealUnitCost = %v, want 3.50", got)
	}
}

func TestRealUnitCostBoundaries(t *testing.T) {
	// %99.999 fire: sonlu ve çok büyük ama tanımlı
	p := models.Product{Name: "Safran", PricePerUnit: 1, WastePct: 99.999}
	got, err := RealUnitCost(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsInf(got, 0) || math.IsNaN(got) || got < 1000 {
		t.Fatalf("RealUnitCost = %v, want finite and large", got)
	}

	// %100 fire: reddedilmeli
	p.WastePct = 100
	if _, err := RealUnitCost(p); !errors.Is(err, ErrWasteOutOfRange) {
		t.Fatalf("waste=100 için ErrWasteOutOfRange bekleniyordu, geldi: %v", err)
	}

	// Negatif fire de geçersiz
	p.WastePct = -1
	if _, err := RealUnitCost(p); !errors.Is(err, ErrWasteOutOfRange) {
		t.Fatalf("waste=-1 için ErrWasteOutOfRange bekleniyordu, geldi: %v", err)
	}
}

func TestRealRecipeUnitCost(t *testing.T) {
	// totalCost=6.40, weightAdjustment=-50 => 12.80
	r := models.Recipe{Name: "Demi-glace", TotalCost: 6.40, WeightAdjustmentPct: -50}
	got, err := RealRecipeUnitCost(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 12.80) {
		t.Fatalf("RealRecipeUnitCost = %v, want 12.80", got)
	}
}

func TestRealRecipeUnitCostOrdering(t *testing.T) {
	base := models.Recipe{Name: "Hamur", TotalCost: 10}

	// Pozitif düzeltme (verim artışı) birim maliyeti düşürür
	base.WeightAdjustmentPct = 20
	got, err := RealRecipeUnitCost(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got >= base.TotalCost {
		t.Fatalf("pozitif düzeltmede maliyet nominalden küçük olmalı: %v", got)
	}

	// Negatif düzeltme (pişirme kaybı) birim maliyeti artırır
	base.WeightAdjustmentPct = -20
	got, err = RealRecipeUnitCost(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got <= base.TotalCost {
		t.Fatalf("negatif düzeltmede maliyet nominalden büyük olmalı: %v", got)
	}
}

func TestRealRecipeUnitCostRejectsTotalLoss(t *testing.T) {
	for _, adj := range []float64{-100, -150} {
		r := models.Recipe{Name: "Bozuk", TotalCost: 5, WeightAdjustmentPct: adj}
		if _, err := RealRecipeUnitCost(r); !errors.Is(err, ErrWeightAdjustmentLow) {
			t.Fatalf("adj=%v için ErrWeightAdjustmentLow bekleniyordu, geldi: %v", adj, err)
		}
	}
}

func TestSuggestedPrice(t *testing.T) {
	got, err := SuggestedPrice(3, DefaultTargetFoodCostPct)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 10) {
		t.Fatalf("SuggestedPrice = %v, want 10", got)
	}

	for _, target := range []float64{0, 100, -5, 120} {
		if _, err := SuggestedPrice(3, target); !errors.Is(err, ErrTargetFoodCostPct) {
			t.Fatalf("target=%v için ErrTargetFoodCostPct bekleniyordu, geldi: %v", target, err)
		}
	}
}

func TestFoodCostPercentage(t *testing.T) {
	if got := FoodCostPercentage(3, 10); !almostEqual(got, 30) {
		t.Fatalf("FoodCostPercentage = %v, want 30", got)
	}
	// Sıfır/negatif net fiyat hata değil, 0 sentineli
	if got := FoodCostPercentage(3, 0); got != 0 {
		t.Fatalf("netPrice=0 için 0 bekleniyordu, geldi: %v", got)
	}
	if got := FoodCostPercentage(3, -1); got != 0 {
		t.Fatalf("netPrice<0 için 0 bekleniyordu, geldi: %v", got)
	}
}
