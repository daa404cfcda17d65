package inventory

import (
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

type UpsertCountRequest struct {
	InitialQuantity float64 `json:"initial_quantity"`
	FinalQuantity   float64 `json:"final_quantity"`
}

type CountResponse struct {
	ProductID       uint    `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Unit            string  `json:"unit"`
	InitialQuantity float64 `json:"initial_quantity"`
	FinalQuantity   float64 `json:"final_quantity"`
	UpdatedAt       string  `json:"updated_at"`
}

// PUT /api/inventory-counts/:productId
// Ürün başına tek sayım satırı tutulur; eşzamanlı düzenlemede son yazan kazanır.
func UpsertCountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := c.ParamsInt("productId")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var body UpsertCountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.InitialQuantity < 0 || body.FinalQuantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sayım miktarları negatif olamaz")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		count := models.EditableInventory{
			ProductID:       uint(productID),
			InitialQuantity: body.InitialQuantity,
			FinalQuantity:   body.FinalQuantity,
		}
		err = database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"initial_quantity", "final_quantity", "updated_at"}),
		}).Create(&count).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayım kaydedilemedi")
		}

		return c.JSON(CountResponse{
			ProductID:       uint(productID),
			ProductName:     product.Name,
			Unit:            product.Unit,
			InitialQuantity: body.InitialQuantity,
			FinalQuantity:   body.FinalQuantity,
			UpdatedAt:       count.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/inventory-counts
func ListCountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var counts []models.EditableInventory
		if err := database.DB.Preload("Product").Find(&counts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sayımlar listelenemedi")
		}

		resp := make([]CountResponse, 0, len(counts))
		for _, ct := range counts {
			resp = append(resp, CountResponse{
				ProductID:       ct.ProductID,
				ProductName:     ct.Product.Name,
				Unit:            ct.Product.Unit,
				InitialQuantity: ct.InitialQuantity,
				FinalQuantity:   ct.FinalQuantity,
				UpdatedAt:       ct.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(resp)
	}
}
