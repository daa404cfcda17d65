package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null" // Default: null JSON
	afterStr := "null"  // Default: null JSON

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// UndoLog - Bir audit log'u undo et
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log bulunamadı: %w", err)
	}

	// Zaten undo edilmiş mi?
	if log.IsUndone {
		return fmt.Errorf("bu işlem zaten geri alınmış")
	}

	// Undo işlemini gerçekleştir
	switch log.Action {
	case models.AuditActionCreate:
		// Create ise entity'yi sil
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("entity silinemedi: %w", err)
		}

	case models.AuditActionUpdate:
		// Update ise önceki haline geri döndür
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri yüklenemedi: %w", err)
		}

	case models.AuditActionDelete:
		// Delete ise entity'yi geri oluştur (create)
		if err := recreateEntity(log.EntityType, log.AfterData); err != nil {
			return fmt.Errorf("entity geri oluşturulamadı: %w", err)
		}

	default:
		return fmt.Errorf("bu işlem türü geri alınamaz")
	}

	// Log'u işaretle
	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	// Undo işlemi için yeni bir log oluştur
	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log kaydedilemedi: %w", err)
	}

	return nil
}

// deleteEntity - Entity'yi sil
func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "stock_movement":
		return database.DB.Delete(&models.StockMovement{}, "id = ?", entityID).Error
	case "waste_entry":
		return database.DB.Delete(&models.WasteEntry{}, "id = ?", entityID).Error
	case "personal_meal":
		return database.DB.Delete(&models.PersonalMeal{}, "id = ?", entityID).Error
	case "sale":
		return database.DB.Delete(&models.Sale{}, "id = ?", entityID).Error
	case "expense":
		return database.DB.Delete(&models.Expense{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// recreateEntity - Silinen entity'yi geri oluştur
func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "stock_movement":
		var m models.StockMovement
		if err := json.Unmarshal([]byte(dataJSON), &m); err != nil {
			return err
		}
		m.ID = 0 // Yeni entity oluştur
		return database.DB.Create(&m).Error

	case "waste_entry":
		var entry models.WasteEntry
		if err := json.Unmarshal([]byte(dataJSON), &entry); err != nil {
			return err
		}
		entry.ID = 0
		return database.DB.Create(&entry).Error

	case "personal_meal":
		var meal models.PersonalMeal
		if err := json.Unmarshal([]byte(dataJSON), &meal); err != nil {
			return err
		}
		meal.ID = 0
		return database.DB.Create(&meal).Error

	case "sale":
		var sale models.Sale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		sale.ID = 0
		return database.DB.Create(&sale).Error

	case "expense":
		var expense models.Expense
		if err := json.Unmarshal([]byte(dataJSON), &expense); err != nil {
			return err
		}
		expense.ID = 0
		return database.DB.Create(&expense).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// restoreEntity - Entity'yi geri yükle (update)
func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "stock_movement":
		var m models.StockMovement
		if err := json.Unmarshal([]byte(dataJSON), &m); err != nil {
			return err
		}
		return database.DB.Model(&models.StockMovement{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"product_id": m.ProductID,
			"type":       m.Type,
			"quantity":   m.Quantity,
			"unit_price": m.UnitPrice,
			"total_cost": m.TotalCost,
			"source":     m.Source,
			"date":       m.Date,
			"note":       m.Note,
		}).Error

	case "waste_entry":
		var entry models.WasteEntry
		if err := json.Unmarshal([]byte(dataJSON), &entry); err != nil {
			return err
		}
		return database.DB.Model(&models.WasteEntry{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"product_id": entry.ProductID,
			"date":       entry.Date,
			"quantity":   entry.Quantity,
			"cost":       entry.Cost,
			"note":       entry.Note,
		}).Error

	case "personal_meal":
		var meal models.PersonalMeal
		if err := json.Unmarshal([]byte(dataJSON), &meal); err != nil {
			return err
		}
		return database.DB.Model(&models.PersonalMeal{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"dish_id":  meal.DishID,
			"date":     meal.Date,
			"quantity": meal.Quantity,
			"cost":     meal.Cost,
			"note":     meal.Note,
		}).Error

	case "sale":
		var sale models.Sale
		if err := json.Unmarshal([]byte(dataJSON), &sale); err != nil {
			return err
		}
		return database.DB.Model(&models.Sale{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"dish_id":       sale.DishID,
			"date":          sale.Date,
			"quantity_sold": sale.QuantitySold,
			"unit_cost":     sale.UnitCost,
			"unit_revenue":  sale.UnitRevenue,
			"total_cost":    sale.TotalCost,
			"total_revenue": sale.TotalRevenue,
		}).Error

	case "expense":
		var expense models.Expense
		if err := json.Unmarshal([]byte(dataJSON), &expense); err != nil {
			return err
		}
		return database.DB.Model(&models.Expense{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"category_id": expense.CategoryID,
			"date":        expense.Date,
			"amount":      expense.Amount,
			"description": expense.Description,
		}).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}
