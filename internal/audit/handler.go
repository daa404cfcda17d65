package audit

import (
	"fmt"

	"mutfak-backend/internal/auth"
	"mutfak-backend/internal/database"
	"mutfak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneBy    *uint              `json:"undone_by"`
	UndoneAt    *string            `json:"undone_at"`
}

// GET /api/audit-logs?entity_type=waste_entry&entity_id=1&user_id=2
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityType := c.Query("entity_type")
		entityIDStr := c.Query("entity_id")
		userIDStr := c.Query("user_id")

		dbq := database.DB.Model(&models.AuditLog{})

		// User ID filtresi
		if userIDStr != "" {
			var uid uint
			if _, err := fmt.Sscan(userIDStr, &uid); err == nil && uid > 0 {
				dbq = dbq.Where("user_id = ?", uid)
			}
		}

		// Entity type filtresi
		if entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}

		// Entity ID filtresi
		if entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Loglar listelenemedi")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, log := range logs {
			var undoneAtStr *string
			if log.UndoneAt != nil {
				formatted := log.UndoneAt.Format("2006-01-02 15:04:05")
				undoneAtStr = &formatted
			}
			resp = append(resp, AuditLogResponse{
				ID:          log.ID,
				CreatedAt:   log.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      log.UserID,
				UserName:    log.UserName,
				EntityType:  log.EntityType,
				EntityID:    log.EntityID,
				Action:      log.Action,
				Description: log.Description,
				IsUndone:    log.IsUndone,
				UndoneBy:    log.UndoneBy,
				UndoneAt:    undoneAtStr,
			})
		}

		return c.JSON(resp)
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var logID uint
		if _, err := fmt.Sscan(c.Params("id"), &logID); err != nil || logID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz log ID")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if err := UndoLog(logID, userID, userName); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{"success": true})
	}
}
