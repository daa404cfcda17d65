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

type CreatePersonalMealRequest struct {
	DishID   uint    `json:"dish_id"`
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"` // porsiyon sayısı
	Note     string  `json:"note"`     // kim yedi (opsiyonel)
}

type PersonalMealResponse struct {
	ID        uint    `json:"id"`
	DishID    uint    `json:"dish_id"`
	DishName  string  `json:"dish_name"`
	Date      string  `json:"date"`
	Quantity  float64 `json:"quantity"`
	Cost      float64 `json:"cost"`
	Note      string  `json:"note"`
	CreatedAt string  `json:"created_at"`
}

func mealResponse(m models.PersonalMeal) PersonalMealResponse {
	return PersonalMealResponse{
		ID:        m.ID,
		DishID:    m.DishID,
		DishName:  m.Dish.Name,
		Date:      m.Date.Format("2006-01-02"),
		Quantity:  m.Quantity,
		Cost:      m.Cost,
		Note:      m.Note,
		CreatedAt: m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/personal-meals
// Personel yemeği ciro üretmez ama malzeme tüketir; maliyeti tabağın kayıt
// anındaki maliyetinden dondurulur.
func CreatePersonalMealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePersonalMealRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.DishID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "dish_id zorunlu")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity 0'dan büyük olmalı")
		}
		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		var dish models.Dish
		if err := database.DB.First(&dish, "id = ?", body.DishID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tabak bulunamadı")
		}

		meal := models.PersonalMeal{
			DishID:   body.DishID,
			Date:     d,
			Quantity: body.Quantity,
			Cost:     dish.TotalCost * body.Quantity,
			Note:     body.Note,
		}
		if err := database.DB.Create(&meal).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel yemeği kaydedilemedi")
		}
		meal.Dish = dish

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "personal_meal",
				EntityID:    meal.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Personel yemeği: %s x%.0f", dish.Name, meal.Quantity),
				Before:      nil,
				After:       meal,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(mealResponse(meal))
	}
}

// GET /api/personal-meals?start=&end=
func ListPersonalMealsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Dish").Model(&models.PersonalMeal{})

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

		var meals []models.PersonalMeal
		if err := dbq.Order("date DESC, created_at DESC").Find(&meals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel yemekleri listelenemedi")
		}

		resp := make([]PersonalMealResponse, 0, len(meals))
		for _, m := range meals {
			resp = append(resp, mealResponse(m))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/personal-meals/:id
func DeletePersonalMealHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt ID")
		}

		var meal models.PersonalMeal
		if err := database.DB.Preload("Dish").First(&meal, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personel yemeği kaydı bulunamadı")
		}

		if err := database.DB.Delete(&models.PersonalMeal{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt silinemedi")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "personal_meal",
				EntityID:    meal.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Personel yemeği silindi: %s x%.0f", meal.Dish.Name, meal.Quantity),
				Before:      meal,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"message": "Personel yemeği kaydı silindi"})
	}
}
