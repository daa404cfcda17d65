package catalog

import (
	"strings"

	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID                   uint    `json:"id"`
	Code                 string  `json:"code"`
	Name                 string  `json:"name"`
	Unit                 string  `json:"unit"`
	Quantity             float64 `json:"quantity"`
	PricePerUnit         float64 `json:"price_per_unit"`
	WastePct             float64 `json:"waste_pct"`
	EffectivePricePerUnit float64 `json:"effective_price_per_unit"` // fire düzeltmeli gerçek birim maliyet
}

type CreateProductRequest struct {
	Code         string  `json:"code"` // Opsiyonel stok kodu
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	WastePct     float64 `json:"waste_pct"`
}

type UpdateProductRequest struct {
	Code         *string  `json:"code"`
	Name         *string  `json:"name"`
	Unit         *string  `json:"unit"`
	Quantity     *float64 `json:"quantity"`
	PricePerUnit *float64 `json:"price_per_unit"`
	WastePct     *float64 `json:"waste_pct"`
}

func productResponse(p models.Product) ProductResponse {
	resp := ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Unit:         p.Unit,
		Quantity:     p.Quantity,
		PricePerUnit: p.PricePerUnit,
		WastePct:     p.WastePct,
	}
	// Kayıtlı ürünlerde fire her zaman geçerli aralıktadır (create/update doğrular)
	if real, err := costing.RealUnitCost(p); err == nil {
		resp.EffectivePricePerUnit = real
	}
	return resp
}

// GET /api/products (tüm authenticated kullanıcılar görebilir)
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, productResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/products (sadece admin)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)
		body.Code = strings.TrimSpace(body.Code)

		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve unit zorunlu")
		}
		if !models.ValidUnits[body.Unit] {
			return fiber.NewError(fiber.StatusBadRequest, "Unit geçersiz (kg, gr, lt, ml, adet)")
		}
		if body.PricePerUnit < 0 || body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat ve miktar negatif olamaz")
		}
		if body.WastePct < 0 || body.WastePct >= 100 {
			return fiber.NewError(fiber.StatusBadRequest, "Fire oranı %0 ile %100 (hariç) arasında olmalı")
		}

		// Stok kodu unique kontrolü (boş değilse)
		if body.Code != "" {
			var existing models.Product
			if err := database.DB.Where("code = ?", body.Code).First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu stok kodu zaten kullanılıyor")
			}
		}

		p := models.Product{
			Code:         body.Code,
			Name:         body.Name,
			Unit:         body.Unit,
			Quantity:     body.Quantity,
			PricePerUnit: body.PricePerUnit,
			WastePct:     body.WastePct,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(productResponse(p))
	}
}

// PUT /api/admin/products/:id
// Not: Fiyat değişikliği mevcut reçete/tabak malzemelerinin snapshot
// maliyetlerini GERİYE DÖNÜK değiştirmez; onlar eklendikleri andaki fiyatı taşır.
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			p.Name = name
		}

		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if !models.ValidUnits[unit] {
				return fiber.NewError(fiber.StatusBadRequest, "Unit geçersiz (kg, gr, lt, ml, adet)")
			}
			p.Unit = unit
		}

		if body.Code != nil {
			p.Code = strings.TrimSpace(*body.Code)
		}

		if body.Quantity != nil {
			if *body.Quantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Miktar negatif olamaz")
			}
			p.Quantity = *body.Quantity
		}

		if body.PricePerUnit != nil {
			if *body.PricePerUnit < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
			}
			p.PricePerUnit = *body.PricePerUnit
		}

		if body.WastePct != nil {
			if *body.WastePct < 0 || *body.WastePct >= 100 {
				return fiber.NewError(fiber.StatusBadRequest, "Fire oranı %0 ile %100 (hariç) arasında olmalı")
			}
			p.WastePct = *body.WastePct
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(productResponse(p))
	}
}

// DELETE /api/admin/products/:id
// Reçete veya tabakta kullanılan ürün silinemez; defter kayıtları (hareket,
// zayiat) silmeyi engellemez, toplayıcı yetim referansı 0 katkıyla atlar.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var inRecipes int64
		database.DB.Model(&models.RecipeIngredient{}).Where("product_id = ?", id).Count(&inRecipes)
		if inRecipes > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün reçetelerde kullanılıyor, önce reçetelerden çıkarın")
		}

		var inDishes int64
		database.DB.Model(&models.DishIngredient{}).Where("product_id = ?", id).Count(&inDishes)
		if inDishes > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün tabaklarda kullanılıyor, önce tabaklardan çıkarın")
		}

		if err := database.DB.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
