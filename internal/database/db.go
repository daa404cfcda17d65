package database

import (
	"github.com/rs/zerolog/log"

	"mutfak-backend/internal/config"
	"mutfak-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Veritabanına bağlanılamadı")
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
		// Katalog
		&models.Product{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Dish{},
		&models.DishIngredient{},
		// Defterler
		&models.StockMovement{},
		&models.WasteEntry{},
		&models.PersonalMeal{},
		&models.Sale{},
		&models.EditableInventory{},
		// Gider ve raporlama
		&models.ExpenseCategory{},
		&models.Expense{},
		&models.MonthlyReport{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate hatası")
	}

	log.Info().Msg("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
