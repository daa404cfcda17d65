package report

import (
	"encoding/json"
	"time"

	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/inventory"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type GenerateReportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type MonthlyReportResponse struct {
	ID               uint    `json:"id"`
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	ReportDate       string  `json:"report_date"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalFoodCost    float64 `json:"total_food_cost"`
	TotalExpenses    float64 `json:"total_expenses"`
	NetProfit        float64 `json:"net_profit"`
	TheoreticalFCPct float64 `json:"theoretical_fc_pct"`
	RealFCPct        float64 `json:"real_fc_pct"`
	FCDifferential   float64 `json:"fc_differential"`

	ProductVariances []costing.ProductReconciliation `json:"product_variances,omitempty"`
}

func reportResponse(r models.MonthlyReport, includeDetail bool) MonthlyReportResponse {
	resp := MonthlyReportResponse{
		ID:               r.ID,
		Year:             r.Year,
		Month:            r.Month,
		ReportDate:       r.ReportDate.Format("2006-01-02"),
		TotalRevenue:     r.TotalRevenue,
		TotalFoodCost:    r.TotalFoodCost,
		TotalExpenses:    r.TotalExpenses,
		NetProfit:        r.NetProfit,
		TheoreticalFCPct: r.TheoreticalFCPct,
		RealFCPct:        r.RealFCPct,
		FCDifferential:   r.FCDifferential,
	}
	if includeDetail && r.ReportData != "" && r.ReportData != "null" {
		if err := json.Unmarshal([]byte(r.ReportData), &resp.ProductVariances); err != nil {
			log.Warn().Int("rapor", int(r.ID)).Err(err).Msg("Rapor detayı çözümlenemedi")
		}
	}
	return resp
}

// buildMonthlyReport: Ay kapanışı anlık görüntüsü. Ciro ve teorik maliyet satış
// defterinden, gerçek yüzde sayım bazlı mutabakattan, giderler gider
// defterinden gelir. Net kar teorik gıda maliyeti üzerinden hesaplanır, sayım
// farkı ayrı bir gösterge olarak saklanır.
func buildMonthlyReport(year, month int) (models.MonthlyReport, error) {
	w := costing.MonthWindow(year, month, time.UTC)

	ledgers, err := inventory.LoadLedgers(w.Start, w.End)
	if err != nil {
		return models.MonthlyReport{}, err
	}
	recipes, dishes, err := inventory.LoadCatalogIndexes()
	if err != nil {
		return models.MonthlyReport{}, err
	}

	var products []models.Product
	if err := database.DB.Find(&products).Error; err != nil {
		return models.MonthlyReport{}, err
	}
	var counts []models.EditableInventory
	if err := database.DB.Find(&counts).Error; err != nil {
		return models.MonthlyReport{}, err
	}
	countByProduct := make(map[uint]models.EditableInventory, len(counts))
	for _, ct := range counts {
		countByProduct[ct.ProductID] = ct
	}

	summary := costing.MonthlyFoodCostSummary(year, month, products, counts, ledgers, recipes, dishes)

	var totalExpenses float64
	err = database.DB.Model(&models.Expense{}).
		Where("date >= ? AND date <= ?", w.Start, w.End).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalExpenses).Error
	if err != nil {
		return models.MonthlyReport{}, err
	}

	variances := make([]costing.ProductReconciliation, 0, len(products))
	for _, p := range products {
		variances = append(variances, costing.ReconcileProduct(p, countByProduct[p.ID], w, ledgers, recipes, dishes))
	}
	detail, err := json.Marshal(variances)
	if err != nil {
		return models.MonthlyReport{}, err
	}

	return models.MonthlyReport{
		Year:             year,
		Month:            month,
		ReportDate:       time.Now(),
		TotalRevenue:     summary.TotalFoodSales,
		TotalFoodCost:    summary.TotalFoodCost,
		TotalExpenses:    totalExpenses,
		NetProfit:        summary.TotalFoodSales - summary.TotalFoodCost - totalExpenses,
		TheoreticalFCPct: summary.TheoreticalFoodCostPercentage,
		RealFCPct:        summary.FoodCostPercentage,
		FCDifferential:   summary.RealVsTheoreticalDiff,
		ReportData:       string(detail),
	}, nil
}

// POST /api/reports/monthly
// Aynı ay için tekrar çağrılırsa eski rapor silinip yenisi yazılır (kapanış
// düzeltmesi senaryosu).
func GenerateMonthlyReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GenerateReportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Year < 2000 || body.Year > 2100 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçerli bir year değeri gerekli")
		}
		if body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month 1-12 arasında olmalı")
		}

		report, err := buildMonthlyReport(body.Year, body.Month)
		if err != nil {
			log.Error().Err(err).Msg("Aylık rapor oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}

		tx := database.DB.Begin()
		if err := tx.Where("year = ? AND month = ?", body.Year, body.Month).
			Delete(&models.MonthlyReport{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Eski rapor temizlenemedi")
		}
		if err := tx.Create(&report).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor kaydedilemedi")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(reportResponse(report, true))
	}
}

// GET /api/reports/monthly
func ListMonthlyReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reports []models.MonthlyReport
		if err := database.DB.Order("year DESC, month DESC").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Raporlar listelenemedi")
		}

		resp := make([]MonthlyReportResponse, 0, len(reports))
		for _, r := range reports {
			resp = append(resp, reportResponse(r, false))
		}
		return c.JSON(resp)
	}
}

// GET /api/reports/monthly/:id
func GetMonthlyReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rapor ID")
		}

		var r models.MonthlyReport
		if err := database.DB.First(&r, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Rapor bulunamadı")
		}
		return c.JSON(reportResponse(r, true))
	}
}
