package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"mediatrack/backend/internal/database"
	"mediatrack/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// UserSummary is the short form of a user embedded in friend listings.
type UserSummary struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	DisplayName string `json:"display_name"`
}

// FriendRequestItem is one pending request with its counterpart user.
type FriendRequestItem struct {
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

// FriendRequestsResponse groups pending requests by direction.
type FriendRequestsResponse struct {
	Incoming []FriendRequestItem `json:"incoming"`
	Outgoing []FriendRequestItem `json:"outgoing"`
}

func newUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:          user.ID,
		Username:    user.Username,
		Avatar:      user.AvatarFilename,
		DisplayName: user.DisplayName,
	}
}

// endregion

// region --- Helpers ---

// pairFriendship finds the single relationship row between two users,
// regardless of which side initiated it.
func pairFriendship(a, b uint) (*models.Friendship, error) {
	var relation models.Friendship
	err := database.DB.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		First(&relation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &relation, nil
}

// endregion

// SendFriendRequest godoc
// @Summary      Send a friend request
// @Description  Creates a pending friendship row with the caller as requester.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Target User ID"
// @Success      201 {object} map[string]string "{"message": "Friend request sent"}"
// @Failure      400 {object} ErrorResponse "Cannot add yourself"
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Target user not found"
// @Failure      409 {object} ErrorResponse "Request already exists"
// @Router       /friends/{id}/request [post]
func SendFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if viewerID.(uint) == uint(targetID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot add yourself"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, uint(targetID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	existing, err := pairFriendship(viewerID.(uint), uint(targetID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing relationship"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Request already exists"})
		return
	}

	request := models.Friendship{
		UserID:   viewerID.(uint),
		FriendID: uint(targetID),
		Status:   models.StatusPending,
	}
	if err := database.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Friend request sent"})
}

// GetFriendRequests godoc
// @Summary      List pending friend requests
// @Description  Returns the caller's incoming and outgoing pending requests.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} FriendRequestsResponse
// @Failure      401 {object} ErrorResponse
// @Router       /friends/requests [get]
func GetFriendRequests(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var incoming, outgoing []models.Friendship
	err := database.DB.Preload("User").
		Where("friend_id = ? AND status = ?", viewerID, models.StatusPending).
		Find(&incoming).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	err = database.DB.Preload("Friend").
		Where("user_id = ? AND status = ?", viewerID, models.StatusPending).
		Find(&outgoing).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	response := FriendRequestsResponse{
		Incoming: make([]FriendRequestItem, 0, len(incoming)),
		Outgoing: make([]FriendRequestItem, 0, len(outgoing)),
	}
	for _, r := range incoming {
		response.Incoming = append(response.Incoming, FriendRequestItem{
			User:      newUserSummary(r.User),
			CreatedAt: r.CreatedAt,
		})
	}
	for _, r := range outgoing {
		response.Outgoing = append(response.Outgoing, FriendRequestItem{
			User:      newUserSummary(r.Friend),
			CreatedAt: r.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}

// AcceptFriendRequest godoc
// @Summary      Accept a friend request
// @Description  Accepts a pending request. The path ID is the requester; the caller must be the recipient.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Requesting User ID"
// @Success      200 {object} map[string]string "{"message": "Request accepted"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Pending request not found"
// @Failure      500 {object} ErrorResponse
// @Router       /friends/requests/{id}/accept [post]
func AcceptFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requesterID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var request models.Friendship
	err = database.DB.
		Where("user_id = ? AND friend_id = ? AND status = ?", requesterID, viewerID, models.StatusPending).
		First(&request).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending request not found"})
		return
	}

	if err := database.DB.Model(&request).Update("status", models.StatusAccepted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// RejectFriendRequest godoc
// @Summary      Reject a friend request
// @Description  Deletes a pending incoming request. A no-op when there is nothing to reject.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Requesting User ID"
// @Success      200 {object} map[string]string "{"message": "Request rejected"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /friends/requests/{id}/reject [post]
func RejectFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requesterID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	err = database.DB.
		Where("user_id = ? AND friend_id = ? AND status = ?", requesterID, viewerID, models.StatusPending).
		Delete(&models.Friendship{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
}

// CancelFriendRequest godoc
// @Summary      Cancel a sent friend request
// @Description  Deletes a pending outgoing request. A no-op when there is nothing to cancel.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Target User ID"
// @Success      200 {object} map[string]string "{"message": "Request canceled"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /friends/requests/{id} [delete]
func CancelFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	err = database.DB.
		Where("user_id = ? AND friend_id = ? AND status = ?", viewerID, targetID, models.StatusPending).
		Delete(&models.Friendship{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request canceled"})
}

// RemoveFriend godoc
// @Summary      Remove a friend
// @Description  Deletes the relationship row between the caller and another user, whatever its state.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Friend User ID"
// @Success      200 {object} map[string]string "{"message": "Friendship removed"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /friends/{id} [delete]
func RemoveFriend(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	err = database.DB.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			viewerID, targetID, targetID, viewerID).
		Delete(&models.Friendship{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove friendship"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friendship removed"})
}

// GetFriendshipStatus godoc
// @Summary      Get friendship status with a user
// @Description  Maps the relationship row between the caller and another user to a viewer-relative status.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} map[string]string "{"status": "not_friends"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /friends/status/{id} [get]
func GetFriendshipStatus(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	relation, err := pairFriendship(viewerID.(uint), uint(targetID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status"})
		return
	}
	if relation == nil {
		c.JSON(http.StatusOK, gin.H{"status": "not_friends"})
		return
	}

	var status string
	switch relation.Status {
	case models.StatusPending:
		if relation.UserID == viewerID.(uint) {
			status = "request_sent"
		} else {
			status = "request_received"
		}
	case models.StatusAccepted:
		status = "friends"
	case models.StatusRejected:
		status = "rejected"
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// GetFriends godoc
// @Summary      List the caller's friends
// @Description  Returns the distinct accepted counterparts across both directions.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} UserSummary
// @Failure      401 {object} ErrorResponse
// @Router       /friends [get]
func GetFriends(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var friendships []models.Friendship
	err := database.DB.
		Where("(user_id = ? OR friend_id = ?) AND status = ?", viewerID, viewerID, models.StatusAccepted).
		Find(&friendships).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	friendIDs := make([]uint, 0, len(friendships))
	seen := make(map[uint]bool)
	for _, f := range friendships {
		counterpart := f.FriendID
		if f.FriendID == viewerID.(uint) {
			counterpart = f.UserID
		}
		if !seen[counterpart] {
			seen[counterpart] = true
			friendIDs = append(friendIDs, counterpart)
		}
	}

	response := make([]UserSummary, 0, len(friendIDs))
	if len(friendIDs) > 0 {
		var friends []models.User
		if err := database.DB.Find(&friends, friendIDs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
			return
		}
		for _, friend := range friends {
			response = append(response, newUserSummary(friend))
		}
	}

	c.JSON(http.StatusOK, response)
}
