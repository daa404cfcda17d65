package costing

import (
	"reflect"
	"testing"
	"time"

	"mutfak-backend/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func juneWindow() Window {
	return Window{Start: day("2026-06-01"), End: day("2026-06-30")}
}

// Domates (ID 1) kullanan bir tabak fikstürü: porsiyon başına 0.1 kg doğrudan,
// ayrıca 0.25 birim sos reçetesi üzerinden 2*0.25 = 0.5 kg.
func testDishes() (RecipeIndex, DishIndex) {
	recipes := NewRecipeIndex([]models.Recipe{
		{
			ID:   20,
			Name: "Domates sosu",
			Ingredients: []models.RecipeIngredient{
				{RecipeID: 20, ProductID: 1, Quantity: 2},
			},
		},
	})
	dishes := NewDishIndex([]models.Dish{
		{
			ID:   30,
			Name: "Makarna",
			Ingredients: []models.DishIngredient{
				{DishID: 30, ProductID: uintPtr(1), Quantity: 0.1},
				{DishID: 30, RecipeID: uintPtr(20), Quantity: 0.25},
			},
		},
	})
	return recipes, dishes
}

func TestAggregateMovementsFourChannels(t *testing.T) {
	recipes, dishes := testDishes()
	l := Ledgers{
		Movements: []models.StockMovement{
			{ProductID: 1, Type: models.MovementIn, Quantity: 10, Source: models.SourceOrder, Date: day("2026-06-03")},
			{ProductID: 1, Type: models.MovementIn, Quantity: 5, Source: models.SourceOrder, Date: day("2026-07-01")},  // dönem dışı
			{ProductID: 2, Type: models.MovementIn, Quantity: 99, Source: models.SourceOrder, Date: day("2026-06-03")}, // başka ürün
			{ProductID: 1, Type: models.MovementOut, Quantity: 1.5, Source: models.SourceSale, Date: day("2026-06-10")},
			{ProductID: 1, Type: models.MovementOut, Quantity: 0.5, Source: models.SourceAdjustment, Date: day("2026-06-10")}, // satış kanalı değil
		},
		Waste: []models.WasteEntry{
			{ProductID: 1, Quantity: 2, Date: day("2026-06-05")},
			{ProductID: 1, Quantity: 1, Date: day("2026-05-31")}, // dönem dışı
		},
		PersonalMeals: []models.PersonalMeal{
			{ID: 1, DishID: 30, Quantity: 2, Date: day("2026-06-12")},
		},
		Sales: []models.Sale{
			{ID: 1, DishID: 30, QuantitySold: 10, Date: day("2026-06-15")},
		},
	}

	got := AggregateMovements(1, juneWindow(), l, recipes, dishes)

	perServing := 0.1 + 2*0.25 // 0.6 kg domates / porsiyon
	want := MovementTotals{
		TotalIn:          10,
		SalesOut:         1.5,
		WasteOut:         2,
		PersonalMealsOut: perServing * 2,
		DishSalesOut:     perServing * 10,
	}
	want.TotalOut = want.SalesOut + want.WasteOut + want.PersonalMealsOut + want.DishSalesOut

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AggregateMovements = %+v, want %+v", got, want)
	}
}

func TestAggregateMovementsIdempotent(t *testing.T) {
	recipes, dishes := testDishes()
	l := Ledgers{
		Movements: []models.StockMovement{
			{ProductID: 1, Type: models.MovementIn, Quantity: 4, Source: models.SourceOrder, Date: day("2026-06-01")},
		},
		Sales: []models.Sale{
			{ID: 1, DishID: 30, QuantitySold: 3, Date: day("2026-06-30")},
		},
	}

	first := AggregateMovements(1, juneWindow(), l, recipes, dishes)
	second := AggregateMovements(1, juneWindow(), l, recipes, dishes)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aynı defter dilimi farklı sonuç verdi: %+v != %+v", first, second)
	}
}

func TestAggregateMovementsOrphanSaleContributesZero(t *testing.T) {
	recipes, dishes := testDishes()
	l := Ledgers{
		Sales: []models.Sale{
			{ID: 1, DishID: 777, QuantitySold: 5, Date: day("2026-06-15")}, // silinmiş tabak
		},
		PersonalMeals: []models.PersonalMeal{
			{ID: 1, DishID: 777, Quantity: 1, Date: day("2026-06-15")},
		},
	}

	got := AggregateMovements(1, juneWindow(), l, recipes, dishes)
	if got.DishSalesOut != 0 || got.PersonalMealsOut != 0 || got.TotalOut != 0 {
		t.Fatalf("yetim satış/yemek 0 katkı yapmalı: %+v", got)
	}
}

func TestAggregateMovementsEmptyLedgers(t *testing.T) {
	recipes, dishes := testDishes()
	got := AggregateMovements(1, juneWindow(), Ledgers{}, recipes, dishes)
	if (got != MovementTotals{}) {
		t.Fatalf("boş defterde tüm toplamlar 0 olmalı: %+v", got)
	}
}

func TestWindowContainsInclusive(t *testing.T) {
	w := juneWindow()
	if !w.Contains(day("2026-06-01")) || !w.Contains(day("2026-06-30")) {
		t.Fatalf("dönem uçları dahil olmalı")
	}
	if w.Contains(day("2026-05-31")) || w.Contains(day("2026-07-01")) {
		t.Fatalf("dönem dışı günler dahil olmamalı")
	}
}

func TestMonthWindow(t *testing.T) {
	w := MonthWindow(2026, 2, time.UTC)
	if !w.Start.Equal(day("2026-02-01")) || !w.End.Equal(day("2026-02-28")) {
		t.Fatalf("MonthWindow(2026, 2) = [%v, %v]", w.Start, w.End)
	}
}
