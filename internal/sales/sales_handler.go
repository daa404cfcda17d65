package sales

import (
	"fmt"
	"time"

	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSaleRequest struct {
	DishID       uint    `json:"dish_id"`
	Date         string  `json:"date"`
	QuantitySold float64 `json:"quantity_sold"`
}

type SaleResponse struct {
	ID           uint    `json:"id"`
	DishID       uint    `json:"dish_id"`
	DishName     string  `json:"dish_name"`
	Date         string  `json:"date"`
	QuantitySold float64 `json:"quantity_sold"`
	UnitCost     float64 `json:"unit_cost"`
	UnitRevenue  float64 `json:"unit_revenue"`
	TotalCost    float64 `json:"total_cost"`
	TotalRevenue float64 `json:"total_revenue"`
	CreatedAt    string  `json:"created_at"`
}

func saleResponse(s models.Sale) SaleResponse {
	return SaleResponse{
		ID:           s.ID,
		DishID:       s.DishID,
		DishName:     s.Dish.Name,
		Date:         s.Date.Format("2006-01-02"),
		QuantitySold: s.QuantitySold,
		UnitCost:     s.UnitCost,
		UnitRevenue:  s.UnitRevenue,
		TotalCost:    s.TotalCost,
		TotalRevenue: s.TotalRevenue,
		CreatedAt:    s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// newSale: Maliyet ve fiyat satış anında tabaktan dondurulur. Sonradan tarif
// veya fiyat değişse de geçmiş satışlar eski değerleriyle kalır.
func newSale(dish models.Dish, date time.Time, quantity float64) models.Sale {
	return models.Sale{
		DishID:       dish.ID,
		Date:         date,
		QuantitySold: quantity,
		UnitCost:     dish.TotalCost,
		UnitRevenue:  dish.SellingPrice,
		TotalCost:    dish.TotalCost * quantity,
		TotalRevenue: dish.SellingPrice * quantity,
	}
}

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.DishID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "dish_id zorunlu")
		}
		if body.QuantitySold <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity_sold 0'dan büyük olmalı")
		}
		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		var dish models.Dish
		if err := database.DB.First(&dish, "id = ?", body.DishID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tabak bulunamadı")
		}

		sale := newSale(dish, d, body.QuantitySold)
		if err := database.DB.Create(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış kaydı oluşturulamadı")
		}
		sale.Dish = dish

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Satış: %s x%.0f", dish.Name, sale.QuantitySold),
				Before:      nil,
				After:       sale,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(saleResponse(sale))
	}
}

// GET /api/sales?dish_id=&start=&end=
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Dish").Model(&models.Sale{})

		if didStr := c.Query("dish_id"); didStr != "" {
			var did uint
			if _, err := fmt.Sscan(didStr, &did); err == nil && did > 0 {
				dbq = dbq.Where("dish_id = ?", did)
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

		var records []models.Sale
		if err := dbq.Order("date DESC, created_at DESC").Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		resp := make([]SaleResponse, 0, len(records))
		for _, s := range records {
			resp = append(resp, saleResponse(s))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/sales/:id
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satış ID")
		}

		var sale models.Sale
		if err := database.DB.Preload("Dish").First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satış kaydı bulunamadı")
		}

		if err := database.DB.Delete(&models.Sale{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış kaydı silinemedi")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Satış silindi: %s x%.0f", sale.Dish.Name, sale.QuantitySold),
				Before:      sale,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"message": "Satış kaydı silindi"})
	}
}
