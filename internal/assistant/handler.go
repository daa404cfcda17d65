package assistant

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/inventory"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// buildContextPrompt: Asistana güncel ayın mutabakat özetini sistem mesajı
// olarak verir. Ham defter satırları değil, toplulaştırılmış sayılar gönderilir.
func buildContextPrompt() string {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	w := costing.MonthWindow(year, month, time.UTC)

	var sb strings.Builder
	sb.WriteString("Sen bir restoran işletmesinin maliyet ve envanter asistanısın. ")
	sb.WriteString("Elindeki verilerle kısa, somut ve Türkçe cevaplar ver.\n\n")

	ledgers, err := inventory.LoadLedgers(w.Start, w.End)
	if err != nil {
		log.Warn().Err(err).Msg("Asistan bağlamı için defterler yüklenemedi")
		return sb.String()
	}
	recipes, dishes, err := inventory.LoadCatalogIndexes()
	if err != nil {
		return sb.String()
	}
	var products []models.Product
	if err := database.DB.Find(&products).Error; err != nil {
		return sb.String()
	}
	var counts []models.EditableInventory
	if err := database.DB.Find(&counts).Error; err != nil {
		return sb.String()
	}

	summary := costing.MonthlyFoodCostSummary(year, month, products, counts, ledgers, recipes, dishes)
	fmt.Fprintf(&sb, "Bu ay (%d/%02d): ciro %.2f TL, teorik gıda maliyeti %.2f TL (%%%.1f), gerçek gıda maliyeti %%%.1f, fark %.1f puan.\n",
		year, month, summary.TotalFoodSales, summary.TotalFoodCost,
		summary.TheoreticalFoodCostPercentage, summary.FoodCostPercentage, summary.RealVsTheoreticalDiff)

	// En yüksek kayıp değerli 5 ürün
	countByProduct := make(map[uint]models.EditableInventory, len(counts))
	for _, ct := range counts {
		countByProduct[ct.ProductID] = ct
	}
	rows := make([]costing.ProductReconciliation, 0, len(products))
	for _, p := range products {
		rows = append(rows, costing.ReconcileProduct(p, countByProduct[p.ID], w, ledgers, recipes, dishes))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].VarianceValue > rows[j].VarianceValue })

	if len(rows) > 0 {
		sb.WriteString("Kayıp değeri en yüksek ürünler:\n")
		for i, r := range rows {
			if i >= 5 || r.VarianceValue <= 0 {
				break
			}
			fmt.Fprintf(&sb, "- %s: fark %.2f %s, değeri %.2f TL\n", r.ProductName, r.Variance, r.Unit, r.VarianceValue)
		}
	}

	return sb.String()
}

// POST /api/assistant/chat
func ChatHandler(client *Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ChatRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if strings.TrimSpace(body.Message) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "message alanı boş olamaz")
		}

		reply, err := client.Chat(c.Context(), buildContextPrompt(), body.Message)
		if err != nil {
			if errors.Is(err, ErrNotConfigured) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "Asistan yapılandırılmamış (ASSISTANT_API_KEY eksik)")
			}
			log.Error().Err(err).Msg("Asistan isteği başarısız")
			return fiber.NewError(fiber.StatusBadGateway, "Asistan şu anda cevap veremiyor")
		}

		return c.JSON(ChatResponse{Reply: reply})
	}
}
