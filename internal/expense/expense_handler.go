package expense

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

type CategoryRequest struct {
	Name string `json:"name"`
}

// POST /api/expense-categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori adı zorunlu")
		}

		var count int64
		database.DB.Model(&models.ExpenseCategory{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu isimde bir kategori zaten var")
		}

		category := models.ExpenseCategory{Name: name}
		if err := database.DB.Create(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(category)
	}
}

// GET /api/expense-categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.ExpenseCategory
		if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}
		return c.JSON(categories)
	}
}

// DELETE /api/expense-categories/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori ID")
		}

		var inUse int64
		database.DB.Model(&models.Expense{}).Where("category_id = ?", id).Count(&inUse)
		if inUse > 0 {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Kategori silinemez: %d gider kaydı bu kategoriyi kullanıyor", inUse))
		}

		res := database.DB.Delete(&models.ExpenseCategory{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}
		return c.JSON(fiber.Map{"message": "Kategori silindi"})
	}
}

type CreateExpenseRequest struct {
	CategoryID  uint    `json:"category_id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type ExpenseResponse struct {
	ID           uint    `json:"id"`
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	CreatedAt    string  `json:"created_at"`
}

func expenseResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:           e.ID,
		CategoryID:   e.CategoryID,
		CategoryName: e.Category.Name,
		Date:         e.Date.Format("2006-01-02"),
		Amount:       e.Amount,
		Description:  e.Description,
		CreatedAt:    e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.CategoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "category_id zorunlu")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
		}
		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		var category models.ExpenseCategory
		if err := database.DB.First(&category, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
		}

		e := models.Expense{
			CategoryID:  body.CategoryID,
			Date:        d,
			Amount:      body.Amount,
			Description: strings.TrimSpace(body.Description),
		}
		if err := database.DB.Create(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydedilemedi")
		}
		e.Category = category

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "expense",
				EntityID:    e.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Gider: %s %.2f TL", category.Name, e.Amount),
				Before:      nil,
				After:       e,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(expenseResponse(e))
	}
}

// GET /api/expenses?category_id=&start=&end=
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Category").Model(&models.Expense{})

		if cidStr := c.Query("category_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err == nil && cid > 0 {
				dbq = dbq.Where("category_id = ?", cid)
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

		var expenses []models.Expense
		if err := dbq.Order("date DESC, created_at DESC").Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giderler listelenemedi")
		}

		resp := make([]ExpenseResponse, 0, len(expenses))
		for _, e := range expenses {
			resp = append(resp, expenseResponse(e))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz gider ID")
		}

		var e models.Expense
		if err := database.DB.Preload("Category").First(&e, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider kaydı bulunamadı")
		}

		if err := database.DB.Delete(&models.Expense{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider silinemedi")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "expense",
				EntityID:    e.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Gider silindi: %s %.2f TL", e.Category.Name, e.Amount),
				Before:      e,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"message": "Gider kaydı silindi"})
	}
}

// GET /api/expenses/monthly-summary?year=&month=
// Kategori bazında aylık gider dökümü.
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var year, month int
		if _, err := fmt.Sscan(c.Query("year"), &year); err != nil || year < 2000 || year > 2100 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçerli bir year parametresi gerekli")
		}
		if _, err := fmt.Sscan(c.Query("month"), &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month 1-12 arasında olmalı")
		}

		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

		type categoryTotal struct {
			CategoryID   uint    `json:"category_id"`
			CategoryName string  `json:"category_name"`
			Total        float64 `json:"total"`
		}
		var totals []categoryTotal
		err := database.DB.Model(&models.Expense{}).
			Select("expenses.category_id, expense_categories.name AS category_name, SUM(expenses.amount) AS total").
			Joins("JOIN expense_categories ON expense_categories.id = expenses.category_id").
			Where("expenses.date >= ? AND expenses.date <= ?", start, end).
			Group("expenses.category_id, expense_categories.name").
			Order("total DESC").
			Scan(&totals).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider özeti hesaplanamadı")
		}

		grandTotal := 0.0
		for _, t := range totals {
			grandTotal += t.Total
		}

		return c.JSON(fiber.Map{
			"year":       year,
			"month":      month,
			"categories": totals,
			"total":      grandTotal,
		})
	}
}
