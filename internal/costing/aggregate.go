package costing

import (
	"time"

	"github.com/rs/zerolog/log"

	"mutfak-backend/internal/models"
)

// Window: Toplama dönemi, [Start, End] gün hassasiyetinde ve iki uç dahil.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// MonthWindow: Takvim ayını kapsayan dönem.
func MonthWindow(year, month int, loc *time.Location) Window {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return Window{Start: first, End: first.AddDate(0, 1, -1)}
}

// Ledgers: Toplayıcının okuduğu defter dilimleri. Handler tarafından çekilip
// olduğu gibi verilir; motor bu dilimleri değiştirmez.
type Ledgers struct {
	Movements     []models.StockMovement
	Waste         []models.WasteEntry
	PersonalMeals []models.PersonalMeal
	Sales         []models.Sale
}

// MovementTotals: Bir ürünün dönem içi giriş/çıkış dökümü.
// Çıkış dört bağımsız kanaldan toplanır: doğrudan satış hareketleri, zayiat,
// personel yemekleri ve POS satışlarının reçete/tabak açılımı.
type MovementTotals struct {
	TotalIn          float64 `json:"total_in"`
	SalesOut         float64 `json:"sales_out"`
	WasteOut         float64 `json:"waste_out"`
	PersonalMealsOut float64 `json:"personal_meals_out"`
	DishSalesOut     float64 `json:"dish_sales_out"`
	TotalOut         float64 `json:"total_out"`
}

// productShareInDish: Tabağın bir porsiyonunda bu üründen ne kadar kullanıldığı.
// Doğrudan ürün satırları sayılır; reçete satırları bir seviye açılıp reçetenin
// malzemeleri taranır (iki seviyeli açılım: ürün -> reçete -> tabak).
func productShareInDish(d models.Dish, productID uint, recipes RecipeIndex) float64 {
	share := 0.0
	for _, ing := range d.Ingredients {
		kind, id := IngredientRefOf(ing)
		switch kind {
		case IngredientProduct:
			if id == productID {
				share += ing.Quantity
			}
		case IngredientRecipe:
			r, ok := recipes[id]
			if !ok {
				// Silinmiş reçete: katkı 0, tarihî kayıt mutabakatı bozmaz
				continue
			}
			for _, ri := range r.Ingredients {
				if ri.ProductID == productID {
					share += ri.Quantity * ing.Quantity
				}
			}
		}
	}
	return share
}

// AggregateMovements: Bir ürünün [start, end] dönemindeki giriş ve dört kanallı
// çıkış toplamları. Defter dilimi değişmediği sürece tekrar çağrılar aynı
// sonucu döner. Silinmiş tabak/reçete referansları sıfır katkı yapar ve
// loglanır; tarihî mutabakat katalog düzenlemelerinde asla patlamamalı.
func AggregateMovements(productID uint, w Window, l Ledgers, recipes RecipeIndex, dishes DishIndex) MovementTotals {
	var t MovementTotals

	for _, m := range l.Movements {
		if m.ProductID != productID || !w.Contains(m.Date) {
			continue
		}
		switch {
		case m.Type == models.MovementIn:
			t.TotalIn += m.Quantity
		case m.Type == models.MovementOut && m.Source == models.SourceSale:
			// Ayrıca işlenmiş satış çıkışı; POS açılımıyla çapraz kontrol kanalı
			t.SalesOut += m.Quantity
		}
	}

	for _, we := range l.Waste {
		if we.ProductID == productID && w.Contains(we.Date) {
			t.WasteOut += we.Quantity
		}
	}

	for _, pm := range l.PersonalMeals {
		if !w.Contains(pm.Date) {
			continue
		}
		d, ok := dishes[pm.DishID]
		if !ok {
			log.Warn().Uint("personal_meal_id", pm.ID).Uint("dish_id", pm.DishID).
				Msg("personel yemeği silinmiş tabağa işaret ediyor, katkı 0 sayıldı")
			continue
		}
		t.PersonalMealsOut += productShareInDish(d, productID, recipes) * pm.Quantity
	}

	for _, s := range l.Sales {
		if !w.Contains(s.Date) {
			continue
		}
		d, ok := dishes[s.DishID]
		if !ok {
			log.Warn().Uint("sale_id", s.ID).Uint("dish_id", s.DishID).
				Msg("satış kaydı silinmiş tabağa işaret ediyor, katkı 0 sayıldı")
			continue
		}
		t.DishSalesOut += productShareInDish(d, productID, recipes) * s.QuantitySold
	}

	t.TotalOut = t.SalesOut + t.WasteOut + t.PersonalMealsOut + t.DishSalesOut
	return t
}
