package costing

import (
	"time"

	"mutfak-backend/internal/models"
)

// ProductReconciliation: Ürün bazlı mutabakat sonucu.
// Variance = sayım başı + giren - çıkan - sayım sonu. Pozitif fark "kayıp var"
// (bozulma, fazla porsiyon, fire dışı kayıp), negatif fark "defter fazla yazmış"
// demektir. Değerleme ürünün birim alış fiyatından yapılır.
type ProductReconciliation struct {
	ProductID       uint           `json:"product_id"`
	ProductName     string         `json:"product_name"`
	Unit            string         `json:"unit"`
	InitialQuantity float64        `json:"initial_quantity"`
	FinalQuantity   float64        `json:"final_quantity"`
	Totals          MovementTotals `json:"totals"`
	Variance        float64        `json:"variance"`
	FinalValue      float64        `json:"final_value"`    // FinalQuantity * PricePerUnit
	VarianceValue   float64        `json:"variance_value"` // Variance * PricePerUnit
}

// ReconcileProduct: Elle girilen sayım (ürün başına tek, dönemsiz satır) ile
// toplayıcının giriş/çıkışını birleştirir. Sayımların dönemle hizalı olması
// veri girişi tarafının sorumluluğudur; motor "en son sayılan değerler"i alır.
func ReconcileProduct(p models.Product, inv models.EditableInventory, w Window, l Ledgers, recipes RecipeIndex, dishes DishIndex) ProductReconciliation {
	totals := AggregateMovements(p.ID, w, l, recipes, dishes)
	variance := inv.InitialQuantity + totals.TotalIn - totals.TotalOut - inv.FinalQuantity

	return ProductReconciliation{
		ProductID:       p.ID,
		ProductName:     p.Name,
		Unit:            p.Unit,
		InitialQuantity: inv.InitialQuantity,
		FinalQuantity:   inv.FinalQuantity,
		Totals:          totals,
		Variance:        variance,
		FinalValue:      inv.FinalQuantity * p.PricePerUnit,
		VarianceValue:   variance * p.PricePerUnit,
	}
}

// MonthlyFoodCost: Aylık gıda maliyeti özeti.
// Teorik yüzde satış defterinin maliyet/ciro alanlarından (nominal), gerçek
// yüzde envanter hareketinden (başlangıç + giren - son, birim alış fiyatıyla
// değerlenmiş) hesaplanır. Fark pozitifse gerçek tüketim reçetelerin
// öngördüğünü aşıyor demektir.
type MonthlyFoodCost struct {
	Year                          int     `json:"year"`
	Month                         int     `json:"month"`
	TotalFoodSales                float64 `json:"total_food_sales"`
	TotalFoodCost                 float64 `json:"total_food_cost"`
	FoodCostPercentage            float64 `json:"food_cost_percentage"`             // gerçek (sayım bazlı) yüzde
	TheoreticalFoodCostPercentage float64 `json:"theoretical_food_cost_percentage"` // satış defterinden nominal yüzde
	RealVsTheoreticalDiff         float64 `json:"real_vs_theoretical_diff"`
}

// MonthlyFoodCostSummary: Takvim ayı için envanter geneli gerçek/teorik gıda
// maliyeti karşılaştırması. Gerçek maliyet hesabı yalnızca ay hassasiyetinde
// anlamlıdır çünkü elle sayımlar daha ince dönem tutmaz.
//
// Dönemde hiç satış yoksa yüzdeler 0 döner; bu hata değil, taze dönemin normal
// halidir (0 = "veri yok", "bedava" değil).
func MonthlyFoodCostSummary(year, month int, products []models.Product, counts []models.EditableInventory, l Ledgers, recipes RecipeIndex, dishes DishIndex) MonthlyFoodCost {
	w := MonthWindow(year, month, time.UTC)

	out := MonthlyFoodCost{Year: year, Month: month}
	for _, s := range l.Sales {
		if !w.Contains(s.Date) {
			continue
		}
		out.TotalFoodSales += s.TotalRevenue
		out.TotalFoodCost += s.TotalCost
	}
	out.TheoreticalFoodCostPercentage = FoodCostPercentage(out.TotalFoodCost, out.TotalFoodSales)

	// Gerçek maliyet: tüm envanter üzerinden (ürün ürün değil, toplamda)
	// başlangıç değeri + giren değeri - son değer, birim alış fiyatından.
	countByProduct := make(map[uint]models.EditableInventory, len(counts))
	for _, c := range counts {
		countByProduct[c.ProductID] = c
	}

	realConsumptionValue := 0.0
	for _, p := range products {
		inv := countByProduct[p.ID] // sayım girilmemişse sıfır satır
		totals := AggregateMovements(p.ID, w, l, recipes, dishes)
		realConsumptionValue += (inv.InitialQuantity + totals.TotalIn - inv.FinalQuantity) * p.PricePerUnit
	}

	out.FoodCostPercentage = FoodCostPercentage(realConsumptionValue, out.TotalFoodSales)
	out.RealVsTheoreticalDiff = out.FoodCostPercentage - out.TheoreticalFoodCostPercentage
	return out
}
