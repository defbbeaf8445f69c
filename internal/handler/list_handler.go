package handler

import (
	"errors"
	"net/http"
	"time"

	"mediatrack/backend/internal/database"
	"mediatrack/backend/internal/logger"
	"mediatrack/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListInput defines the structure for a list membership change.
type ListInput struct {
	MediaID   uint   `json:"media_id" binding:"required"`
	ListType  string `json:"list_type" binding:"required" example:"planned"`
	Operation string `json:"operation" example:"toggle"`
}

// SetListMembership godoc
// @Summary      Change a list membership
// @Description  Toggles, adds or removes a media entry in one of the caller's lists. Planned and completed are mutually exclusive; setting one evicts the other. Returns the recomputed flags.
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ListInput true "Membership change"
// @Success      200 {object} models.ListStatus
// @Failure      400 {object} ErrorResponse "Invalid list type or operation"
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Media not found"
// @Failure      500 {object} ErrorResponse
// @Router       /media/list [post]
func SetListMembership(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input ListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if !models.ValidListType(input.ListType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list type"})
		return
	}
	listType := models.ListType(input.ListType)

	operation := input.Operation
	if operation == "" {
		operation = "toggle"
	}
	if operation != "toggle" && operation != "add" && operation != "remove" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operation"})
		return
	}

	var media models.Media
	if err := database.DB.First(&media, input.MediaID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		return
	}

	// The eviction of the opposite list and the membership change must
	// land together or not at all.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if opposite, ok := listType.Opposite(); ok {
			err := tx.Where("user_id = ? AND media_id = ? AND list_type = ?",
				userID, media.ID, opposite).
				Delete(&models.UserMediaList{}).Error
			if err != nil {
				return err
			}
		}

		var existing models.UserMediaList
		err := tx.Where("user_id = ? AND media_id = ? AND list_type = ?",
			userID, media.ID, listType).
			First(&existing).Error
		present := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		switch operation {
		case "add":
			if present {
				return nil
			}
		case "remove":
			if !present {
				return nil
			}
		}

		if present && operation != "add" {
			return tx.Where("user_id = ? AND media_id = ? AND list_type = ?",
				userID, media.ID, listType).
				Delete(&models.UserMediaList{}).Error
		}

		return tx.Create(&models.UserMediaList{
			UserID:   userID.(uint),
			MediaID:  media.ID,
			ListType: listType,
			AddedAt:  time.Now(),
		}).Error
	})
	if err != nil {
		logger.Get().WithError(err).Error("list membership update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update list"})
		return
	}

	statuses, err := listStatusesFor(userID.(uint), []uint{media.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load list status"})
		return
	}

	c.JSON(http.StatusOK, statuses[media.ID])
}
