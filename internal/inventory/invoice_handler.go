package inventory

import (
	"fmt"
	"strings"
	"time"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ParseInvoiceRequest struct {
	Text string `json:"text"` // PDF'den çıkarılmış düz metin
}

// POST /api/stock-movements/parse-invoice
// Frontend PDF'i metne çevirip gönderir; burada satırlar ayrıştırılıp katalogla
// eşleştirilir. Kayıt oluşturulmaz, operatör onayı confirm-invoice'a gider.
func ParseInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ParseInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if strings.TrimSpace(body.Text) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Fatura metni boş olamaz")
		}

		var products []models.Product
		if err := database.DB.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler yüklenemedi")
		}

		parsed := ParseInvoiceText(body.Text, products)
		if len(parsed.Lines) == 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Faturada ürün satırı bulunamadı")
		}

		return c.JSON(parsed)
	}
}

type ConfirmInvoiceLineRequest struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type ConfirmInvoiceRequest struct {
	InvoiceNumber string                      `json:"invoice_number"`
	Date          string                      `json:"date"`
	Lines         []ConfirmInvoiceLineRequest `json:"lines"`
}

// POST /api/stock-movements/confirm-invoice
// Onaylanan fatura satırlarını IN hareketlerine çevirir. Satırlar tek
// transaction'da yazılır, biri bozuksa hiçbiri kaydedilmez.
func ConfirmInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ConfirmInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if len(body.Lines) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir fatura satırı gerekli")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		note := "Tedarikçi faturası"
		if body.InvoiceNumber != "" {
			note = fmt.Sprintf("Tedarikçi faturası %s", body.InvoiceNumber)
		}

		movements := make([]models.StockMovement, 0, len(body.Lines))
		tx := database.DB.Begin()
		for _, line := range body.Lines {
			if line.ProductID == 0 || line.Quantity <= 0 || line.UnitPrice < 0 {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest, "Fatura satırı geçersiz (ürün, miktar, fiyat kontrol edin)")
			}
			var product models.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ürün bulunamadı: %d", line.ProductID))
			}

			m := models.StockMovement{
				ProductID: line.ProductID,
				Type:      models.MovementIn,
				Source:    models.SourceOrder,
				Date:      d,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				TotalCost: line.UnitPrice * line.Quantity,
				Note:      note,
			}
			if err := tx.Create(&m).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketi oluşturulamadı")
			}

			// Faturadaki birim fiyat ürünün güncel alış fiyatı olur
			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
				Updates(map[string]any{
					"price_per_unit": line.UnitPrice,
					"quantity":       product.Quantity + line.Quantity,
				}).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün fiyatı güncellenemedi")
			}

			movements = append(movements, m)
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fatura kaydedilemedi")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			for _, m := range movements {
				_ = audit.WriteLog(audit.LogOptions{
					UserID:      userID,
					UserName:    userName,
					EntityType:  "stock_movement",
					EntityID:    m.ID,
					Action:      models.AuditActionCreate,
					Description: fmt.Sprintf("%s: ürün %d, %.2f adet giriş", note, m.ProductID, m.Quantity),
					Before:      nil,
					After:       m,
				})
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":        fmt.Sprintf("%d stok girişi oluşturuldu", len(movements)),
			"movement_count": len(movements),
		})
	}
}
