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

type CreateWasteRequest struct {
	ProductID uint    `json:"product_id"`
	Date      string  `json:"date"`
	Quantity  float64 `json:"quantity"`
	Note      string  `json:"note"` // zorunlu: ne oldu, kim sebep oldu
}

type WasteResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Unit        string  `json:"unit"`
	Date        string  `json:"date"`
	Quantity    float64 `json:"quantity"`
	Cost        float64 `json:"cost"`
	Note        string  `json:"note"`
	CreatedAt   string  `json:"created_at"`
}

func wasteResponse(w models.WasteEntry) WasteResponse {
	return WasteResponse{
		ID:          w.ID,
		ProductID:   w.ProductID,
		ProductName: w.Product.Name,
		Unit:        w.Product.Unit,
		Date:        w.Date.Format("2006-01-02"),
		Quantity:    w.Quantity,
		Cost:        w.Cost,
		Note:        w.Note,
		CreatedAt:   w.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/waste-entries
func CreateWasteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWasteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity 0'dan büyük olmalı")
		}
		if strings.TrimSpace(body.Note) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Zayiat kaydı için açıklama zorunlu")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		entry := models.WasteEntry{
			ProductID: body.ProductID,
			Date:      d,
			Quantity:  body.Quantity,
			// Maliyet kayıt anındaki birim fiyattan dondurulur, sonraki fiyat
			// değişiklikleri geçmiş zayiatı etkilemez.
			Cost: product.PricePerUnit * body.Quantity,
			Note: strings.TrimSpace(body.Note),
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Zayiat kaydı oluşturulamadı")
		}
		entry.Product = product

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "waste_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Zayiat: %s %.2f %s", product.Name, entry.Quantity, product.Unit),
				Before:      nil,
				After:       entry,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(wasteResponse(entry))
	}
}

// GET /api/waste-entries?product_id=&start=&end=
func ListWasteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Product").Model(&models.WasteEntry{})

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

		var entries []models.WasteEntry
		if err := dbq.Order("date DESC, created_at DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Zayiat kayıtları listelenemedi")
		}

		resp := make([]WasteResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, wasteResponse(e))
		}
		return c.JSON(resp)
	}
}

// GET /api/waste-entries/:id
func GetWasteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt ID")
		}

		var entry models.WasteEntry
		if err := database.DB.Preload("Product").First(&entry, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Zayiat kaydı bulunamadı")
		}
		return c.JSON(wasteResponse(entry))
	}
}

// DELETE /api/waste-entries/:id
func DeleteWasteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt ID")
		}

		var entry models.WasteEntry
		if err := database.DB.Preload("Product").First(&entry, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Zayiat kaydı bulunamadı")
		}

		if err := database.DB.Delete(&models.WasteEntry{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Zayiat kaydı silinemedi")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "waste_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Zayiat silindi: %s %.2f", entry.Product.Name, entry.Quantity),
				Before:      entry,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"message": "Zayiat kaydı silindi"})
	}
}
