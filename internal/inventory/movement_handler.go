package inventory

import (
	"fmt"
	"time"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateMovementRequest struct {
	Date      string  `json:"date"` // "2026-06-09"
	ProductID uint    `json:"product_id"`
	Type      string  `json:"type"`   // in / out
	Source    string  `json:"source"` // order, sale, waste, personal_meal, adjustment
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"` // 0 ise ürünün güncel fiyatı kullanılır
	Note      string  `json:"note"`
}

type MovementResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Type        string  `json:"type"`
	Source      string  `json:"source"`
	Date        string  `json:"date"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalCost   float64 `json:"total_cost"`
	Note        string  `json:"note"`
	CreatedAt   string  `json:"created_at"`
}

var validSources = map[models.MovementSource]bool{
	models.SourceOrder:        true,
	models.SourceSale:         true,
	models.SourceWaste:        true,
	models.SourcePersonalMeal: true,
	models.SourceAdjustment:   true,
}

func movementResponse(m models.StockMovement, productName string) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: productName,
		Type:        string(m.Type),
		Source:      string(m.Source),
		Date:        m.Date.Format("2006-01-02"),
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TotalCost:   m.TotalCost,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/stock-movements
// Defter append-only: hareketler güncellenmez, yanlış kayıt audit undo ile geri alınır.
func CreateMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity 0'dan büyük olmalı")
		}
		mType := models.MovementType(body.Type)
		if mType != models.MovementIn && mType != models.MovementOut {
			return fiber.NewError(fiber.StatusBadRequest, "type 'in' veya 'out' olmalı")
		}
		source := models.MovementSource(body.Source)
		if !validSources[source] {
			return fiber.NewError(fiber.StatusBadRequest, "source geçersiz (order, sale, waste, personal_meal, adjustment)")
		}
		if body.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "unit_price negatif olamaz")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		unitPrice := body.UnitPrice
		if unitPrice == 0 {
			unitPrice = product.PricePerUnit
		}

		m := models.StockMovement{
			ProductID: body.ProductID,
			Type:      mType,
			Source:    source,
			Date:      d,
			Quantity:  body.Quantity,
			UnitPrice: unitPrice,
			TotalCost: unitPrice * body.Quantity,
			Note:      body.Note,
		}

		if err := database.DB.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketi oluşturulamadı")
		}

		// Bilgi amaçlı eldeki miktarı güncelle (mutabakatın esası sayımlardır)
		delta := m.Quantity
		if m.Type == models.MovementOut {
			delta = -delta
		}
		database.DB.Model(&models.Product{}).Where("id = ?", product.ID).
			Update("quantity", product.Quantity+delta)

		// Audit log
		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_movement",
				EntityID:    m.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Stok hareketi: %s %s %.2f %s", product.Name, m.Type, m.Quantity, product.Unit),
				Before:      nil,
				After:       m,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(movementResponse(m, product.Name))
	}
}

// GET /api/stock-movements?product_id=&start=&end=
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Product").Model(&models.StockMovement{})

		if pidStr := c.Query("product_id"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err == nil && pid > 0 {
				dbq = dbq.Where("product_id = ?", pid)
			}
		}
		if start := c.Query("start"); start != "" {
			d, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start formatı 'YYYY-MM-DD' olmalı")
			}
			dbq = dbq.Where("date >= ?", d)
		}
		if end := c.Query("end"); end != "" {
			d, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end formatı 'YYYY-MM-DD' olmalı")
			}
			dbq = dbq.Where("date <= ?", d)
		}

		var movements []models.StockMovement
		if err := dbq.Order("date DESC, created_at DESC").Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketleri listelenemedi")
		}

		resp := make([]MovementResponse, 0, len(movements))
		for _, m := range movements {
			resp = append(resp, movementResponse(m, m.Product.Name))
		}
		return c.JSON(resp)
	}
}
