package costing

import (
	"errors"
	"testing"

	"mutfak-backend/internal/models"
)

func uintPtr(v uint) *uint       { return &v }
func floatPtr(v float64) *float64 { return &v }

func testProducts() ProductIndex {
	return NewProductIndex([]models.Product{
		{ID: 1, Name: "Domates", Unit: "kg", PricePerUnit: 1.20, WastePct: 2},
		{ID: 2, Name: "Soğan", Unit: "kg", PricePerUnit: 0.80, WastePct: 10},
		{ID: 3, Name: "Zeytinyağı", Unit: "lt", PricePerUnit: 5.00, WastePct: 0},
	})
}

func TestRealRecipeTotalCostOrderOfOperations(t *testing.T) {
	products := testProducts()
	r := models.Recipe{
		ID:                  10,
		Name:                "Sos",
		WeightAdjustmentPct: -15, // pişerken %15 çeker
		Ingredients: []models.RecipeIngredient{
			// Doğrama kaybı %10: satır düzeltmesi önce uygulanır
			{RecipeID: 10, ProductID: 1, Quantity: 2, WeightAdjustmentPct: floatPtr(-10)},
			{RecipeID: 10, ProductID: 3, Quantity: 0.5},
		},
	}

	got, err := RealRecipeTotalCost(r, products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Elle hesap: domates gerçek birim 1.20/0.98, satır = birim*2/0.9;
	// yağ satırı = 5*0.5; toplam / 0.85
	tomato := 1.20 / 0.98 * 2 / 0.9
	oil := 5.0 * 0.5
	want := (tomato + oil) / 0.85
	if !almostEqual(got, want) {
		t.Fatalf("RealRecipeTotalCost = %v, want %v", got, want)
	}
}

func TestRealRecipeTotalCostMissingProductContributesZero(t *testing.T) {
	products := testProducts()
	r := models.Recipe{
		ID:   11,
		Name: "Eski sos",
		Ingredients: []models.RecipeIngredient{
			{RecipeID: 11, ProductID: 999, Quantity: 3}, // silinmiş ürün
			{RecipeID: 11, ProductID: 3, Quantity: 1},
		},
	}

	got, err := RealRecipeTotalCost(r, products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 5.0) {
		t.Fatalf("silinmiş ürün 0 katkı yapmalı: got %v, want 5", got)
	}
}

func TestRealRecipeTotalCostRejectsBadLineAdjustment(t *testing.T) {
	products := testProducts()
	r := models.Recipe{
		ID:   12,
		Name: "Geçersiz",
		Ingredients: []models.RecipeIngredient{
			{RecipeID: 12, ProductID: 1, Quantity: 1, WeightAdjustmentPct: floatPtr(-100)},
		},
	}
	if _, err := RealRecipeTotalCost(r, products); !errors.Is(err, ErrWeightAdjustmentLow) {
		t.Fatalf("satır düzeltmesi -100 için hata bekleniyordu, geldi: %v", err)
	}
}

func TestDishRealFoodCost(t *testing.T) {
	products := testProducts()
	recipes := NewRecipeIndex([]models.Recipe{
		{
			ID:        20,
			Name:      "Domates sosu",
			TotalCost: 2.4,
			Ingredients: []models.RecipeIngredient{
				{RecipeID: 20, ProductID: 1, Quantity: 2},
			},
		},
	})

	d := models.Dish{
		ID:   30,
		Name: "Makarna",
		Ingredients: []models.DishIngredient{
			{DishID: 30, ProductID: uintPtr(2), Quantity: 0.1}, // soğan
			{DishID: 30, RecipeID: uintPtr(20), Quantity: 0.25},
		},
	}

	got, err := DishRealFoodCost(d, products, recipes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	onion := 0.80 / 0.9 * 0.1
	sauce := (1.20 / 0.98 * 2) * 0.25 // reçete düzeltmesi 0
	want := onion + sauce
	if !almostEqual(got, want) {
		t.Fatalf("DishRealFoodCost = %v, want %v", got, want)
	}
}

func TestDishRealFoodCostSkipsInvalidAndMissing(t *testing.T) {
	products := testProducts()
	recipes := NewRecipeIndex(nil)

	d := models.Dish{
		ID:   31,
		Name: "Yetim tabak",
		Ingredients: []models.DishIngredient{
			{DishID: 31, ProductID: uintPtr(999), Quantity: 1},                      // silinmiş ürün
			{DishID: 31, RecipeID: uintPtr(888), Quantity: 1},                       // silinmiş reçete
			{DishID: 31, ProductID: uintPtr(1), RecipeID: uintPtr(20), Quantity: 1}, // tutarsız satır
			{DishID: 31, ProductID: uintPtr(3), Quantity: 0.2},
		},
	}

	got, err := DishRealFoodCost(d, products, recipes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 1.0) {
		t.Fatalf("yalnızca geçerli satır sayılmalı: got %v, want 1", got)
	}
}

func TestIngredientRefOf(t *testing.T) {
	cases := []struct {
		name string
		ing  models.DishIngredient
		kind IngredientKind
		id   uint
	}{
		{"product", models.DishIngredient{ProductID: uintPtr(5)}, IngredientProduct, 5},
		{"recipe", models.DishIngredient{RecipeID: uintPtr(7)}, IngredientRecipe, 7},
		{"neither", models.DishIngredient{}, IngredientInvalid, 0},
		{"both", models.DishIngredient{ProductID: uintPtr(5), RecipeID: uintPtr(7)}, IngredientInvalid, 0},
	}
	for _, c := range cases {
		kind, id := IngredientRefOf(c.ing)
		if kind != c.kind || id != c.id {
			t.Fatalf("%s: IngredientRefOf = (%v, %v), want (%v, %v)", c.name, kind, id, c.kind, c.id)
		}
	}
}

func TestScaleRecipeToYield(t *testing.T) {
	products := testProducts()
	r := models.Recipe{
		ID:                  40,
		Name:                "Püre",
		WeightAdjustmentPct: -20, // bitmiş verim, ham girdinin %80'i
		Ingredients: []models.RecipeIngredient{
			{RecipeID: 40, ProductID: 1, Quantity: 0.5},
		},
	}

	got, err := ScaleRecipeToYield(r, products, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Ingredients) != 1 {
		t.Fatalf("ingredient sayısı = %d, want 1", len(got.Ingredients))
	}

	ing := got.Ingredients[0]
	// Ham alım: 0.5 * 4 / 0.8 = 2.5; bitmiş: 0.5 * 4 = 2
	if !almostEqual(ing.RawQuantity, 2.5) {
		t.Fatalf("RawQuantity = %v, want 2.5", ing.RawQuantity)
	}
	if !almostEqual(ing.FinishedQuantity, 2.0) {
		t.Fatalf("FinishedQuantity = %v, want 2.0", ing.FinishedQuantity)
	}
	if ing.RawQuantity == ing.FinishedQuantity {
		t.Fatalf("ham ve bitmiş miktar ayrı raporlanmalı")
	}
}

func TestScaleRecipeToYieldRejectsTotalLoss(t *testing.T) {
	r := models.Recipe{ID: 41, Name: "Buhar", WeightAdjustmentPct: -100}
	if _, err := ScaleRecipeToYield(r, testProducts(), 1); !errors.Is(err, ErrWeightAdjustmentLow) {
		t.Fatalf("adj=-100 için hata bekleniyordu, geldi: %v", err)
	}
}
