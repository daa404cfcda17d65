package catalog

import (
	"fmt"
	"strings"

	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRecipeRequest struct {
	Name                string  `json:"name"`
	WeightAdjustmentPct float64 `json:"weight_adjustment_pct"`
}

type AddRecipeIngredientRequest struct {
	ProductID           uint     `json:"product_id"`
	Quantity            float64  `json:"quantity"`
	WeightAdjustmentPct *float64 `json:"weight_adjustment_pct"` // satır bazlı, opsiyonel
}

type RecipeIngredientResponse struct {
	ID                  uint     `json:"id"`
	ProductID           uint     `json:"product_id"`
	ProductName         string   `json:"product_name"`
	Unit                string   `json:"unit"`
	Quantity            float64  `json:"quantity"`
	Cost                float64  `json:"cost"` // eklenme anındaki nominal maliyet
	WeightAdjustmentPct *float64 `json:"weight_adjustment_pct,omitempty"`
}

type RecipeResponse struct {
	ID                  uint                       `json:"id"`
	Name                string                     `json:"name"`
	WeightAdjustmentPct float64                    `json:"weight_adjustment_pct"`
	TotalCost           float64                    `json:"total_cost"`      // nominal
	RealUnitCost        *float64                   `json:"real_unit_cost"`  // ağırlık düzeltmeli, hesaplanamazsa nil
	Ingredients         []RecipeIngredientResponse `json:"ingredients"`
}

func recipeResponse(r models.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:                  r.ID,
		Name:                r.Name,
		WeightAdjustmentPct: r.WeightAdjustmentPct,
		TotalCost:           r.TotalCost,
		Ingredients:         make([]RecipeIngredientResponse, 0, len(r.Ingredients)),
	}
	if real, err := costing.RealRecipeUnitCost(r); err == nil {
		resp.RealUnitCost = &real
	}
	for _, ing := range r.Ingredients {
		resp.Ingredients = append(resp.Ingredients, RecipeIngredientResponse{
			ID:                  ing.ID,
			ProductID:           ing.ProductID,
			ProductName:         ing.Product.Name,
			Unit:                ing.Product.Unit,
			Quantity:            ing.Quantity,
			Cost:                ing.Cost,
			WeightAdjustmentPct: ing.WeightAdjustmentPct,
		})
	}
	return resp
}

// recomputeRecipeTotalCost: Nominal toplamı malzeme snapshot'larından yeniden hesapla.
// Her malzeme değişikliğinde çağrılır.
func recomputeRecipeTotalCost(recipeID uint) error {
	var total float64
	if err := database.DB.Model(&models.RecipeIngredient{}).
		Where("recipe_id = ?", recipeID).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	return database.DB.Model(&models.Recipe{}).Where("id = ?", recipeID).
		Update("total_cost", total).Error
}

// GET /api/recipes
func ListRecipesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var recipes []models.Recipe
		if err := database.DB.
			Preload("Ingredients.Product").
			Order("name asc").
			Find(&recipes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçeteler listelenemedi")
		}

		resp := make([]RecipeResponse, 0, len(recipes))
		for _, r := range recipes {
			resp = append(resp, recipeResponse(r))
		}
		return c.JSON(resp)
	}
}

// GET /api/recipes/:id
func GetRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var r models.Recipe
		if err := database.DB.
			Preload("Ingredients.Product").
			First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
		}
		return c.JSON(recipeResponse(r))
	}
}

// POST /api/recipes
func CreateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}
		if body.WeightAdjustmentPct <= -100 {
			return fiber.NewError(fiber.StatusBadRequest, "Ağırlık düzeltmesi %-100 veya daha düşük olamaz")
		}

		r := models.Recipe{
			Name:                body.Name,
			WeightAdjustmentPct: body.WeightAdjustmentPct,
		}
		if err := database.DB.Create(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(recipeResponse(r))
	}
}

// PUT /api/recipes/:id
func UpdateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var r models.Recipe
		if err := database.DB.First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
		}

		var body struct {
			Name                *string  `json:"name"`
			WeightAdjustmentPct *float64 `json:"weight_adjustment_pct"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			r.Name = name
		}
		if body.WeightAdjustmentPct != nil {
			if *body.WeightAdjustmentPct <= -100 {
				return fiber.NewError(fiber.StatusBadRequest, "Ağırlık düzeltmesi %-100 veya daha düşük olamaz")
			}
			r.WeightAdjustmentPct = *body.WeightAdjustmentPct
		}

		if err := database.DB.Save(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete güncellenemedi")
		}

		database.DB.Preload("Ingredients.Product").First(&r, "id = ?", r.ID)
		return c.JSON(recipeResponse(r))
	}
}

// DELETE /api/recipes/:id
func DeleteRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var inDishes int64
		database.DB.Model(&models.DishIngredient{}).Where("recipe_id = ?", id).Count(&inDishes)
		if inDishes > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Reçete tabaklarda kullanılıyor, önce tabaklardan çıkarın")
		}

		if err := database.DB.Delete(&models.Recipe{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/recipes/:id/ingredients
// Malzeme maliyeti eklenme anındaki ürün fiyatından dondurulur (snapshot);
// sonraki fiyat değişiklikleri bu satırı etkilemez.
func AddRecipeIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var r models.Recipe
		if err := database.DB.First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
		}

		var body AddRecipeIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ProductID == 0 || body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu, quantity 0'dan büyük olmalı")
		}
		if body.WeightAdjustmentPct != nil && *body.WeightAdjustmentPct <= -100 {
			return fiber.NewError(fiber.StatusBadRequest, "Ağırlık düzeltmesi %-100 veya daha düşük olamaz")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		ing := models.RecipeIngredient{
			RecipeID:            r.ID,
			ProductID:           product.ID,
			Quantity:            body.Quantity,
			Cost:                product.PricePerUnit * body.Quantity, // snapshot
			WeightAdjustmentPct: body.WeightAdjustmentPct,
		}
		if err := database.DB.Create(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme eklenemedi")
		}

		if err := recomputeRecipeTotalCost(r.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete maliyeti güncellenemedi")
		}

		database.DB.Preload("Ingredients.Product").First(&r, "id = ?", r.ID)
		return c.Status(fiber.StatusCreated).JSON(recipeResponse(r))
	}
}

// DELETE /api/recipes/:id/ingredients/:ingredientId
func RemoveRecipeIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipeID := c.Params("id")
		ingredientID := c.Params("ingredientId")

		res := database.DB.Delete(&models.RecipeIngredient{}, "id = ? AND recipe_id = ?", ingredientID, recipeID)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme silinemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		var rid uint
		if _, err := fmt.Sscan(recipeID, &rid); err == nil {
			if err := recomputeRecipeTotalCost(rid); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Reçete maliyeti güncellenemedi")
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/recipes/:id/scale?quantity=4
// "Şu kadar bitmiş ürün için ne almalıyım?" Ham alım ve bitmiş miktar ayrı döner.
func ScaleRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var r models.Recipe
		if err := database.DB.
			Preload("Ingredients").
			First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
		}

		var target float64
		if _, err := fmt.Sscan(c.Query("quantity"), &target); err != nil || target <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity pozitif bir sayı olmalı")
		}

		var products []models.Product
		if err := database.DB.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		scaled, err := costing.ScaleRecipeToYield(r, costing.NewProductIndex(products), target)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(scaled)
	}
}

// GET /api/recipes/:id/real-cost
// Fire + ağırlık düzeltmeli gerçek toplam maliyet (nominal TotalCost'tan farklı)
func RecipeRealCostHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var r models.Recipe
		if err := database.DB.
			Preload("Ingredients").
			First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete bulunamadı")
		}

		var products []models.Product
		if err := database.DB.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		realCost, err := costing.RealRecipeTotalCost(r, costing.NewProductIndex(products))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{
			"recipe_id":    r.ID,
			"recipe_name":  r.Name,
			"nominal_cost": r.TotalCost,
			"real_cost":    realCost,
		})
	}
}
