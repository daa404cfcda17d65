package catalog

import (
	"fmt"
	"strings"

	"mutfak-backend/internal/costing"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateDishRequest struct {
	Name         string  `json:"name"`
	SellingPrice float64 `json:"selling_price"` // KDV dahil
	VATRate      float64 `json:"vat_rate"`
}

// AddDishIngredientRequest: product_id ve recipe_id'den TAM OLARAK BİRİ dolu olmalı.
type AddDishIngredientRequest struct {
	ProductID *uint   `json:"product_id"`
	RecipeID  *uint   `json:"recipe_id"`
	Quantity  float64 `json:"quantity"`
}

type DishIngredientResponse struct {
	ID       uint    `json:"id"`
	Kind     string  `json:"kind"` // "product" | "recipe"
	RefID    uint    `json:"ref_id"`
	RefName  string  `json:"ref_name"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"` // eklenme anındaki nominal maliyet
}

type DishResponse struct {
	ID           uint                     `json:"id"`
	Name         string                   `json:"name"`
	TotalCost    float64                  `json:"total_cost"` // nominal
	SellingPrice float64                  `json:"selling_price"`
	VATRate      float64                  `json:"vat_rate"`
	NetPrice     float64                  `json:"net_price"`
	FoodCostPct  float64                  `json:"food_cost_pct"` // nominal maliyet / net fiyat (0 = bilinmiyor)
	Ingredients  []DishIngredientResponse `json:"ingredients"`
}

func dishResponse(d models.Dish) DishResponse {
	resp := DishResponse{
		ID:           d.ID,
		Name:         d.Name,
		TotalCost:    d.TotalCost,
		SellingPrice: d.SellingPrice,
		VATRate:      d.VATRate,
		NetPrice:     d.NetPrice(),
		FoodCostPct:  costing.FoodCostPercentage(d.TotalCost, d.NetPrice()),
		Ingredients:  make([]DishIngredientResponse, 0, len(d.Ingredients)),
	}
	for _, ing := range d.Ingredients {
		ir := DishIngredientResponse{
			ID:       ing.ID,
			Quantity: ing.Quantity,
			Cost:     ing.Cost,
		}
		kind, id := costing.IngredientRefOf(ing)
		switch kind {
		case costing.IngredientProduct:
			ir.Kind = "product"
			ir.RefID = id
			if ing.Product != nil {
				ir.RefName = ing.Product.Name
			}
		case costing.IngredientRecipe:
			ir.Kind = "recipe"
			ir.RefID = id
			if ing.Recipe != nil {
				ir.RefName = ing.Recipe.Name
			}
		}
		resp.Ingredients = append(resp.Ingredients, ir)
	}
	return resp
}

func recomputeDishTotalCost(dishID uint) error {
	var total float64
	if err := database.DB.Model(&models.DishIngredient{}).
		Where("dish_id = ?", dishID).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	return database.DB.Model(&models.Dish{}).Where("id = ?", dishID).
		Update("total_cost", total).Error
}

// GET /api/dishes
func ListDishesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var dishes []models.Dish
		if err := database.DB.
			Preload("Ingredients.Product").
			Preload("Ingredients.Recipe").
			Order("name asc").
			Find(&dishes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tabaklar listelenemedi")
		}

		resp := make([]DishResponse, 0, len(dishes))
		for _, d := range dishes {
			resp = append(resp, dishResponse(d))
		}
		return c.JSON(resp)
	}
}

// GET /api/dishes/:id
func GetDishHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var d models.Dish
		if err := database.DB.
			Preload("Ingredients.Product").
			Preload("Ingredients.Recipe").
			First(&d, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tabak bulunamadı")
		}
		return c.JSON(dishResponse(d))
	}
}

// POST /api/dishes
func CreateDishHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDishRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}
		if body.SellingPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Satış fiyatı negatif olamaz")
		}
		if body.VATRate < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "KDV oranı negatif olamaz")
		}

		d := models.Dish{
			Name:         body.Name,
			SellingPrice: body.SellingPrice,
			VATRate:      body.VATRate,
		}
		if d.VATRate == 0 {
			d.VATRate = 10 // restoran KDV varsayılanı
		}

		if err := database.DB.Create(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tabak oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(dishResponse(d))
	}
}

// PUT /api/dishes/:id
func UpdateDishHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var d models.Dish
		if err := database.DB.First(&d, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tabak bulunamadı")
		}

		var body struct {
			Name         *string  `json:"name"`
			SellingPrice *float64 `json:"selling_price"`
			VATRate      *float64 `json:"vat_rate"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			d.Name = name
		}
		if body.SellingPrice != nil {
			if *body.SellingPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Satış fiyatı negatif olamaz")
			}
			d.SellingPrice = *body.SellingPrice
		}
		if body.VATRate != nil {
			if *body.VATRate < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "KDV oranı negatif olamaz")
			}
			d.VATRate = *body.VATRate
		}

		if err := database.DB.Save(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tabak güncellenemedi")
		}

		database.DB.Preload("Ingredients.Product").Preload("Ingredients.Recipe").First(&d, "id = ?", d.ID)
		return c.JSON(dishResponse(d))
	}
}

// DELETE /api/dishes/:id
// Satış/yemek defterleri tabağa işaret etmeye devam edebilir; toplayıcı yetim
// referansı 0 katkıyla atladığı için tarihî mutabakat bozulmaz.
func DeleteDishHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.DB.Delete(&models.Dish{}, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tabak silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/dishes/:id/ingredients
// Ürün veya reçete referansı; maliyet eklenme anındaki nominal değerden dondurulur.
func AddDishIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var d models.Dish
		if err := database.DB.First(&d, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tabak bulunamadı")
		}

		var body AddDishIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity 0'dan büyük olmalı")
		}

		// Ayrıştırılmış referans: ikisi birden veya hiçbiri olamaz
		hasProduct := body.ProductID != nil && *body.ProductID != 0
		hasRecipe := body.RecipeID != nil && *body.RecipeID != 0
		if hasProduct == hasRecipe {
			return fiber.NewError(fiber.StatusBadRequest, "product_id veya recipe_id'den tam olarak biri verilmeli")
		}

		ing := models.DishIngredient{
			DishID:   d.ID,
			Quantity: body.Quantity,
		}

		if hasProduct {
			var product models.Product
			if err := database.DB.First(&product, "id = ?", *body.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
			}
			ing.ProductID = body.ProductID
			ing.Cost = product.PricePerUnit * body.Quantity // snapshot
		} else {
			var recipe models.Recipe
			if err := database.DB.First(&recipe, "id = ?", *body.RecipeID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Reçete bulunamadı")
			}
			ing.RecipeID = body.RecipeID
			ing.Cost = recipe.TotalCost * body.Quantity // snapshot
		}

		if err := database.DB.Create(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme eklenemedi")
		}

		if err := recomputeDishTotalCost(d.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tabak maliyeti güncellenemedi")
		}

		database.DB.Preload("Ingredients.Product").Preload("Ingredients.Recipe").First(&d, "id = ?", d.ID)
		return c.Status(fiber.StatusCreated).JSON(dishResponse(d))
	}
}

// DELETE /api/dishes/:id/ingredients/:ingredientId
func RemoveDishIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dishID := c.Params("id")
		ingredientID := c.Params("ingredientId")

		res := database.DB.Delete(&models.DishIngredient{}, "id = ? AND dish_id = ?", ingredientID, dishID)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme silinemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}

		var did uint
		if _, err := fmt.Sscan(dishID, &did); err == nil {
			if err := recomputeDishTotalCost(did); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Tabak maliyeti güncellenemedi")
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/dishes/:id/real-cost
// Fire ve ağırlık düzeltmeli gerçek maliyet; saklanan nominal'den farklıdır.
func DishRealCostHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, products, recipes, err := loadDishWithCatalog(c.Params("id"))
		if err != nil {
			return err
		}

		realCost, cErr := costing.DishRealFoodCost(d, products, recipes)
		if cErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, cErr.Error())
		}

		return c.JSON(fiber.Map{
			"dish_id":       d.ID,
			"dish_name":     d.Name,
			"nominal_cost":  d.TotalCost,
			"real_cost":     realCost,
			"net_price":     d.NetPrice(),
			"food_cost_pct": costing.FoodCostPercentage(realCost, d.NetPrice()),
		})
	}
}

// GET /api/dishes/:id/suggested-price?target=30
// Gerçek maliyetten hedef gıda maliyeti yüzdesine göre önerilen satış fiyatı.
func DishSuggestedPriceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, products, recipes, err := loadDishWithCatalog(c.Params("id"))
		if err != nil {
			return err
		}

		target := costing.DefaultTargetFoodCostPct
		if q := c.Query("target"); q != "" {
			if _, err := fmt.Sscan(q, &target); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "target geçersiz")
			}
		}

		realCost, cErr := costing.DishRealFoodCost(d, products, recipes)
		if cErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, cErr.Error())
		}

		price, cErr := costing.SuggestedPrice(realCost, target)
		if cErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, cErr.Error())
		}

		return c.JSON(fiber.Map{
			"dish_id":         d.ID,
			"dish_name":       d.Name,
			"real_cost":       realCost,
			"target_pct":      target,
			"suggested_price": price,
		})
	}
}

func loadDishWithCatalog(id string) (models.Dish, costing.ProductIndex, costing.RecipeIndex, error) {
	var d models.Dish
	if err := database.DB.
		Preload("Ingredients").
		First(&d, "id = ?", id).Error; err != nil {
		return d, nil, nil, fiber.NewError(fiber.StatusNotFound, "Tabak bulunamadı")
	}

	var products []models.Product
	if err := database.DB.Find(&products).Error; err != nil {
		return d, nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
	}

	var recipes []models.Recipe
	if err := database.DB.Preload("Ingredients").Find(&recipes).Error; err != nil {
		return d, nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Reçeteler listelenemedi")
	}

	return d, costing.NewProductIndex(products), costing.NewRecipeIndex(recipes), nil
}
