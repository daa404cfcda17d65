package main

import (
	"os"
	"strings"

	"mutfak-backend/internal/assistant"
	"mutfak-backend/internal/audit"
	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/catalog"
	"mutfak-backend/internal/config"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/expense"
	"mutfak-backend/internal/inventory"
	"mutfak-backend/internal/models"
	"mutfak-backend/internal/report"
	"mutfak-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error().Err(err).Str("path", c.Path()).Msg("Beklenmeyen hata")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den temizle
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	assistantClient := assistant.NewClient(cfg.AssistantAPIURL, cfg.AssistantAPIKey, cfg.AssistantModel)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Katalog ve kapanış işlemleri admin, defter girişi ve okuma herkes
	adminOnly := auth.RequireRole(models.RoleAdmin)

	// Ürün yönetimi (katalog değişiklikleri admin, okuma herkes)
	protected.Post("/products", adminOnly, catalog.CreateProductHandler())
	protected.Put("/products/:id", adminOnly, catalog.UpdateProductHandler())
	protected.Delete("/products/:id", adminOnly, catalog.DeleteProductHandler())
	protected.Get("/products", catalog.ListProductsHandler())

	// Reçeteler
	protected.Post("/recipes", adminOnly, catalog.CreateRecipeHandler())
	protected.Put("/recipes/:id", adminOnly, catalog.UpdateRecipeHandler())
	protected.Delete("/recipes/:id", adminOnly, catalog.DeleteRecipeHandler())
	protected.Post("/recipes/:id/ingredients", adminOnly, catalog.AddRecipeIngredientHandler())
	protected.Delete("/recipes/:id/ingredients/:ingredientId", adminOnly, catalog.RemoveRecipeIngredientHandler())
	protected.Get("/recipes", catalog.ListRecipesHandler())
	protected.Get("/recipes/:id", catalog.GetRecipeHandler())
	protected.Get("/recipes/:id/scale", catalog.ScaleRecipeHandler())
	protected.Get("/recipes/:id/real-cost", catalog.RecipeRealCostHandler())

	// Tabaklar
	protected.Post("/dishes", adminOnly, catalog.CreateDishHandler())
	protected.Put("/dishes/:id", adminOnly, catalog.UpdateDishHandler())
	protected.Delete("/dishes/:id", adminOnly, catalog.DeleteDishHandler())
	protected.Post("/dishes/:id/ingredients", adminOnly, catalog.AddDishIngredientHandler())
	protected.Delete("/dishes/:id/ingredients/:ingredientId", adminOnly, catalog.RemoveDishIngredientHandler())
	protected.Get("/dishes", catalog.ListDishesHandler())
	protected.Get("/dishes/:id", catalog.GetDishHandler())
	protected.Get("/dishes/:id/real-cost", catalog.DishRealCostHandler())
	protected.Get("/dishes/:id/suggested-price", catalog.DishSuggestedPriceHandler())

	// Stok hareketleri
	protected.Post("/stock-movements", inventory.CreateMovementHandler())
	protected.Get("/stock-movements", inventory.ListMovementsHandler())
	protected.Post("/stock-movements/parse-invoice", inventory.ParseInvoiceHandler())
	protected.Post("/stock-movements/confirm-invoice", inventory.ConfirmInvoiceHandler())

	// Zayiat girişleri
	protected.Post("/waste-entries", inventory.CreateWasteHandler())
	protected.Get("/waste-entries", inventory.ListWasteHandler())
	protected.Get("/waste-entries/:id", inventory.GetWasteHandler())
	protected.Delete("/waste-entries/:id", inventory.DeleteWasteHandler())

	// Fiziksel sayımlar
	protected.Put("/inventory-counts/:productId", inventory.UpsertCountHandler())
	protected.Get("/inventory-counts", inventory.ListCountsHandler())

	// Mutabakat
	protected.Get("/reconciliation", inventory.ReconciliationHandler())
	protected.Get("/reconciliation/food-cost", inventory.FoodCostSummaryHandler())

	// Satışlar
	protected.Post("/sales", sales.CreateSaleHandler())
	protected.Get("/sales", sales.ListSalesHandler())
	protected.Delete("/sales/:id", sales.DeleteSaleHandler())
	protected.Post("/sales/import-excel", sales.ImportSalesExcelHandler())

	// Personel yemekleri
	protected.Post("/personal-meals", sales.CreatePersonalMealHandler())
	protected.Get("/personal-meals", sales.ListPersonalMealsHandler())
	protected.Delete("/personal-meals/:id", sales.DeletePersonalMealHandler())

	// Giderler
	protected.Post("/expense-categories", adminOnly, expense.CreateCategoryHandler())
	protected.Delete("/expense-categories/:id", adminOnly, expense.DeleteCategoryHandler())
	protected.Get("/expense-categories", expense.ListCategoriesHandler())
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Delete("/expenses/:id", expense.DeleteExpenseHandler())
	protected.Get("/expenses/monthly-summary", expense.MonthlySummaryHandler())

	// Aylık raporlama
	protected.Post("/reports/monthly", adminOnly, report.GenerateMonthlyReportHandler())
	protected.Get("/reports/monthly", report.ListMonthlyReportsHandler())
	protected.Get("/reports/monthly/:id", report.GetMonthlyReportHandler())
	protected.Get("/reports/monthly/:id/export", report.ExportMonthlyReportHandler())

	// Dashboard
	protected.Get("/dashboard/food-cost-chart", report.FoodCostChartHandler())

	// Asistan
	protected.Post("/assistant/chat", assistant.ChatHandler(assistantClient))

	// Denetim kayıtları
	protected.Get("/audit-logs", adminOnly, audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", adminOnly, audit.UndoAuditLogHandler())

	log.Info().Str("port", cfg.HTTPPort).Msg("Sunucu başlatılıyor")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("Sunucu başlatılamadı")
	}
}
