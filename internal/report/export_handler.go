package report

import (
	"fmt"

	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Ürün", "Birim", "Başlangıç Sayımı", "Giren", "Çıkan",
	"Satış Çıkışı", "Zayiat", "Personel Yemeği", "Tabak Satışı",
	"Son Sayım", "Fark", "Fark Değeri (TL)",
}

// GET /api/reports/monthly/:id/export
// Rapordaki ürün bazlı varyans tablosunu xlsx olarak indirir.
func ExportMonthlyReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rapor ID")
		}

		var r models.MonthlyReport
		if err := database.DB.First(&r, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Rapor bulunamadı")
		}
		resp := reportResponse(r, true)

		f := excelize.NewFile()
		defer f.Close()
		sheet := "Mutabakat"
		f.SetSheetName("Sheet1", sheet)

		// Özet bloğu
		f.SetCellValue(sheet, "A1", fmt.Sprintf("%d/%02d Aylık Rapor", r.Year, r.Month))
		f.SetCellValue(sheet, "A2", "Toplam Ciro")
		f.SetCellValue(sheet, "B2", r.TotalRevenue)
		f.SetCellValue(sheet, "A3", "Teorik Gıda Maliyeti")
		f.SetCellValue(sheet, "B3", r.TotalFoodCost)
		f.SetCellValue(sheet, "A4", "Diğer Giderler")
		f.SetCellValue(sheet, "B4", r.TotalExpenses)
		f.SetCellValue(sheet, "A5", "Net Kar")
		f.SetCellValue(sheet, "B5", r.NetProfit)
		f.SetCellValue(sheet, "A6", "Teorik Gıda Maliyeti %")
		f.SetCellValue(sheet, "B6", r.TheoreticalFCPct)
		f.SetCellValue(sheet, "A7", "Gerçek Gıda Maliyeti %")
		f.SetCellValue(sheet, "B7", r.RealFCPct)
		f.SetCellValue(sheet, "A8", "Fark (puan)")
		f.SetCellValue(sheet, "B8", r.FCDifferential)

		// Varyans tablosu
		headerRow := 10
		for i, h := range exportHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
			f.SetCellValue(sheet, cell, h)
		}
		for i, v := range resp.ProductVariances {
			row := headerRow + 1 + i
			values := []any{
				v.ProductName, v.Unit, v.InitialQuantity, v.Totals.TotalIn, v.Totals.TotalOut,
				v.Totals.SalesOut, v.Totals.WasteOut, v.Totals.PersonalMealsOut, v.Totals.DishSalesOut,
				v.FinalQuantity, v.Variance, v.VarianceValue,
			}
			for j, val := range values {
				cell, _ := excelize.CoordinatesToCellName(j+1, row)
				f.SetCellValue(sheet, cell, val)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			log.Error().Err(err).Msg("Excel raporu yazılamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		filename := fmt.Sprintf("aylik-rapor-%d-%02d.xlsx", r.Year, r.Month)
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}

