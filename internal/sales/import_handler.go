package sales

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ImportRow: Excel'den okunan tek satış satırı.
type ImportRow struct {
	RawName       string  `json:"raw_name"`
	Quantity      float64 `json:"quantity"`
	MatchedDishID uint    `json:"matched_dish_id"` // 0 ise eşleşmedi
	MatchedName   string  `json:"matched_name"`
}

// ImportResult: POS Excel içe aktarım özeti.
type ImportResult struct {
	CreatedCount   int         `json:"created_count"`
	UnmatchedRows  []ImportRow `json:"unmatched_rows"`
	TotalRevenue   float64     `json:"total_revenue"`
	TotalFoodCost  float64     `json:"total_food_cost"`
	SkippedInvalid int         `json:"skipped_invalid"`
}

var dishNameReplacer = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "I", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

func normalizeDishName(name string) string {
	return strings.ToLower(strings.TrimSpace(dishNameReplacer.Replace(name)))
}

func parseQuantityCell(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseSalesRows: Başlık satırını bulur ("Ürün" ve "Adet"/"Miktar" sütunları)
// ve altındaki satırları normalize edilmiş isimle tabaklarla eşleştirir.
// POS her tabağı farklı yazabildiği için birebir eşleşme aranır, bulunamayan
// satırlar operatör düzeltmesi için ayrıca döndürülür.
func parseSalesRows(rows [][]string, dishes []models.Dish) ([]ImportRow, int) {
	dishByName := make(map[string]models.Dish, len(dishes))
	for _, d := range dishes {
		dishByName[normalizeDishName(d.Name)] = d
	}

	nameCol, qtyCol := -1, -1
	headerIdx := -1
	for i, row := range rows {
		for j, cell := range row {
			switch normalizeDishName(cell) {
			case "urun", "urun adi", "tabak":
				nameCol = j
			case "adet", "miktar", "satis adedi":
				qtyCol = j
			}
		}
		if nameCol >= 0 && qtyCol >= 0 {
			headerIdx = i
			break
		}
		nameCol, qtyCol = -1, -1
	}
	if headerIdx == -1 {
		return nil, 0
	}

	var out []ImportRow
	skipped := 0
	for _, row := range rows[headerIdx+1:] {
		if len(row) <= nameCol || len(row) <= qtyCol {
			continue
		}
		rawName := strings.TrimSpace(row[nameCol])
		if rawName == "" {
			continue
		}
		quantity := parseQuantityCell(row[qtyCol])
		if quantity <= 0 {
			skipped++
			continue
		}

		ir := ImportRow{RawName: rawName, Quantity: quantity}
		if d, ok := dishByName[normalizeDishName(rawName)]; ok {
			ir.MatchedDishID = d.ID
			ir.MatchedName = d.Name
		}
		out = append(out, ir)
	}
	return out, skipped
}

// POST /api/sales/import-excel (multipart: file, form alanı: date)
// Eşleşen her satır için satış kaydı oluşturur; eşleşmeyenler kayıt edilmeden
// rapor edilir.
func ImportSalesExcelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dateStr := c.FormValue("date")
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date alanı 'YYYY-MM-DD' formatında zorunlu")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası gerekli (file alanı)")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya açılamadı")
		}
		defer file.Close()

		xl, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Geçerli bir Excel dosyası değil")
		}
		defer xl.Close()

		sheets := xl.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Excel dosyasında sayfa yok")
		}
		rows, err := xl.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Excel satırları okunamadı")
		}

		var dishes []models.Dish
		if err := database.DB.Find(&dishes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tabaklar yüklenemedi")
		}

		parsed, skipped := parseSalesRows(rows, dishes)
		if parsed == nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Excel'de 'Ürün' ve 'Adet' sütunları bulunamadı")
		}

		dishByID := make(map[uint]models.Dish, len(dishes))
		for _, dish := range dishes {
			dishByID[dish.ID] = dish
		}

		result := ImportResult{SkippedInvalid: skipped}
		tx := database.DB.Begin()
		var created []models.Sale
		for _, row := range parsed {
			if row.MatchedDishID == 0 {
				result.UnmatchedRows = append(result.UnmatchedRows, row)
				continue
			}
			sale := newSale(dishByID[row.MatchedDishID], d, row.Quantity)
			if err := tx.Create(&sale).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Satış kayıtları oluşturulamadı")
			}
			created = append(created, sale)
			result.CreatedCount++
			result.TotalRevenue += sale.TotalRevenue
			result.TotalFoodCost += sale.TotalCost
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İçe aktarım kaydedilemedi")
		}

		for _, row := range result.UnmatchedRows {
			log.Warn().Str("urun", row.RawName).Msg("POS satırı tabaklarla eşleştirilemedi")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil && len(created) > 0 {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    created[0].ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("POS içe aktarımı: %s, %d satış kaydı", dateStr, len(created)),
				Before:      nil,
				After:       created,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(result)
	}
}
