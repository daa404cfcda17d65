package costing

import (
	"math"
	"testing"

	"mutfak-backend/internal/models"
)

func TestReconcileProductMonthScenario(t *testing.T) {
	// Ürün: başlangıç 25, giriş 10, zayiat 2, personel yemeği porsiyon başına
	// 0.1 birim kullanan tabaktan 1 porsiyon, son sayım 20.
	p := models.Product{ID: 1, Name: "Pirinç", Unit: "kg", PricePerUnit: 2}
	inv := models.EditableInventory{ProductID: 1, InitialQuantity: 25, FinalQuantity: 20}

	dishes := NewDishIndex([]models.Dish{
		{
			ID:   50,
			Name: "Pilav",
			Ingredients: []models.DishIngredient{
				{DishID: 50, ProductID: uintPtr(1), Quantity: 0.1},
			},
		},
	})
	recipes := NewRecipeIndex(nil)

	l := Ledgers{
		Movements: []models.StockMovement{
			{ProductID: 1, Type: models.MovementIn, Quantity: 10, Source: models.SourceOrder, Date: day("2026-06-02")},
		},
		Waste: []models.WasteEntry{
			{ProductID: 1, Quantity: 2, Date: day("2026-06-10")},
		},
		PersonalMeals: []models.PersonalMeal{
			{ID: 1, DishID: 50, Quantity: 1, Date: day("2026-06-11")},
		},
	}

	got := ReconcileProduct(p, inv, juneWindow(), l, recipes, dishes)

	if !almostEqual(got.Totals.TotalOut, 2.1) {
		t.Fatalf("TotalOut = %v, want 2.1", got.Totals.TotalOut)
	}
	wantVariance := 25 + 10 - 2.1 - 20.0
	if !almostEqual(got.Variance, wantVariance) {
		t.Fatalf("Variance = %v, want %v", got.Variance, wantVariance)
	}
	if !almostEqual(got.VarianceValue, wantVariance*2) {
		t.Fatalf("VarianceValue = %v, want %v", got.VarianceValue, wantVariance*2)
	}
	if !almostEqual(got.FinalValue, 40) {
		t.Fatalf("FinalValue = %v, want 40", got.FinalValue)
	}
}

func TestReconcileProductAllZero(t *testing.T) {
	// Hareketsiz dönem: variance = initial - final, tam eşitlik
	p := models.Product{ID: 1, Name: "Un", Unit: "kg", PricePerUnit: 1}
	inv := models.EditableInventory{ProductID: 1, InitialQuantity: 7, FinalQuantity: 3}

	got := ReconcileProduct(p, inv, juneWindow(), Ledgers{}, NewRecipeIndex(nil), NewDishIndex(nil))
	if got.Variance != 4 {
		t.Fatalf("Variance = %v, want 4", got.Variance)
	}
	if got.Totals.TotalIn != 0 || got.Totals.TotalOut != 0 {
		t.Fatalf("boş defterde giriş/çıkış 0 olmalı: %+v", got.Totals)
	}
}

func TestMonthlyFoodCostSummary(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "Domates", Unit: "kg", PricePerUnit: 2},
	}
	counts := []models.EditableInventory{
		{ProductID: 1, InitialQuantity: 50, FinalQuantity: 30},
	}
	l := Ledgers{
		Movements: []models.StockMovement{
			{ProductID: 1, Type: models.MovementIn, Quantity: 20, Source: models.SourceOrder, Date: day("2026-06-05")},
		},
		Sales: []models.Sale{
			{ID: 1, DishID: 30, QuantitySold: 100, TotalCost: 60, TotalRevenue: 200, Date: day("2026-06-20")},
		},
	}

	got := MonthlyFoodCostSummary(2026, 6, products, counts, l, NewRecipeIndex(nil), NewDishIndex(nil))

	if !almostEqual(got.TotalFoodSales, 200) || !almostEqual(got.TotalFoodCost, 60) {
		t.Fatalf("satış toplamları yanlış: %+v", got)
	}
	if !almostEqual(got.TheoreticalFoodCostPercentage, 30) {
		t.Fatalf("teorik %% = %v, want 30", got.TheoreticalFoodCostPercentage)
	}
	// Gerçek tüketim değeri: (50 + 20 - 30) * 2 = 80 => %40
	if !almostEqual(got.FoodCostPercentage, 40) {
		t.Fatalf("gerçek %% = %v, want 40", got.FoodCostPercentage)
	}
	if !almostEqual(got.RealVsTheoreticalDiff, 10) {
		t.Fatalf("fark = %v, want 10", got.RealVsTheoreticalDiff)
	}
}

func TestMonthlyFoodCostSummaryNoSales(t *testing.T) {
	// Taze dönem: satış yoksa yüzdeler 0 döner, hata yok
	got := MonthlyFoodCostSummary(2026, 1, nil, nil, Ledgers{}, NewRecipeIndex(nil), NewDishIndex(nil))
	if got.TotalFoodSales != 0 || got.FoodCostPercentage != 0 ||
		got.TheoreticalFoodCostPercentage != 0 || got.RealVsTheoreticalDiff != 0 {
		t.Fatalf("satışsız dönemde tüm yüzdeler 0 olmalı: %+v", got)
	}
	if math.IsNaN(got.FoodCostPercentage) {
		t.Fatalf("0'a bölme NaN üretmemeli")
	}
}
