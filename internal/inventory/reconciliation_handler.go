package inventory

import (
	"fmt"
	"time"

	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LoadLedgers: Mutabakat penceresine düşen dört defteri tek seferde çeker.
// Tarih filtresi DB tarafında yapılır, pencere kontrolü motor tarafında
// tekrarlanır (ikisi aynı aralığı görür).
func LoadLedgers(start, end time.Time) (costing.Ledgers, error) {
	var l costing.Ledgers

	if err := database.DB.Where("date >= ? AND date <= ?", start, end).
		Find(&l.Movements).Error; err != nil {
		return l, err
	}
	if err := database.DB.Where("date >= ? AND date <= ?", start, end).
		Find(&l.Waste).Error; err != nil {
		return l, err
	}
	if err := database.DB.Where("date >= ? AND date <= ?", start, end).
		Find(&l.PersonalMeals).Error; err != nil {
		return l, err
	}
	if err := database.DB.Where("date >= ? AND date <= ?", start, end).
		Find(&l.Sales).Error; err != nil {
		return l, err
	}
	return l, nil
}

// LoadCatalogIndexes: Tabak satışlarını ürün payına açmak için reçete ve tabak
// ağacını komple belleğe alır. Katalog küçük kalır (yüzler mertebesi), ürün
// başına sorgu atmaktan ucuzdur.
func LoadCatalogIndexes() (costing.RecipeIndex, costing.DishIndex, error) {
	var recipes []models.Recipe
	if err := database.DB.Preload("Ingredients").Find(&recipes).Error; err != nil {
		return nil, nil, err
	}
	var dishes []models.Dish
	if err := database.DB.Preload("Ingredients").Find(&dishes).Error; err != nil {
		return nil, nil, err
	}
	return costing.NewRecipeIndex(recipes), costing.NewDishIndex(dishes), nil
}

// GET /api/reconciliation?start=YYYY-MM-DD&end=YYYY-MM-DD
func ReconciliationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, err := time.Parse("2006-01-02", c.Query("start"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "start formatı 'YYYY-MM-DD' olmalı")
		}
		end, err := time.Parse("2006-01-02", c.Query("end"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "end formatı 'YYYY-MM-DD' olmalı")
		}
		if end.Before(start) {
			return fiber.NewError(fiber.StatusBadRequest, "end, start'tan önce olamaz")
		}
		w := costing.Window{Start: start, End: end}

		var products []models.Product
		if err := database.DB.Order("name ASC").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler yüklenemedi")
		}

		var counts []models.EditableInventory
		if err := database.DB.Find(&counts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayımlar yüklenemedi")
		}
		countByProduct := make(map[uint]models.EditableInventory, len(counts))
		for _, ct := range counts {
			countByProduct[ct.ProductID] = ct
		}

		ledgers, err := LoadLedgers(start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareket defterleri yüklenemedi")
		}
		recipes, dishes, err := LoadCatalogIndexes()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog yüklenemedi")
		}

		rows := make([]costing.ProductReconciliation, 0, len(products))
		totalVarianceValue := 0.0
		totalFinalValue := 0.0
		for _, p := range products {
			row := costing.ReconcileProduct(p, countByProduct[p.ID], w, ledgers, recipes, dishes)
			totalVarianceValue += row.VarianceValue
			totalFinalValue += row.FinalValue
			rows = append(rows, row)
		}

		return c.JSON(fiber.Map{
			"start":                start.Format("2006-01-02"),
			"end":                  end.Format("2006-01-02"),
			"products":             rows,
			"total_final_value":    totalFinalValue,
			"total_variance_value": totalVarianceValue,
		})
	}
}

// GET /api/reconciliation/food-cost?year=2026&month=6
func FoodCostSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var year, month int
		if _, err := fmt.Sscan(c.Query("year"), &year); err != nil || year < 2000 || year > 2100 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçerli bir year parametresi gerekli")
		}
		if _, err := fmt.Sscan(c.Query("month"), &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month 1-12 arasında olmalı")
		}

		w := costing.MonthWindow(year, month, time.UTC)

		var products []models.Product
		if err := database.DB.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler yüklenemedi")
		}
		var counts []models.EditableInventory
		if err := database.DB.Find(&counts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayımlar yüklenemedi")
		}
		ledgers, err := LoadLedgers(w.Start, w.End)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareket defterleri yüklenemedi")
		}
		recipes, dishes, err := LoadCatalogIndexes()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katalog yüklenemedi")
		}

		summary := costing.MonthlyFoodCostSummary(year, month, products, counts, ledgers, recipes, dishes)
		return c.JSON(summary)
	}
}
