package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediatrack/backend/internal/auth"
	"mediatrack/backend/internal/config"
	"mediatrack/backend/internal/database"
	"mediatrack/backend/internal/logger"
	"mediatrack/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxAvatarSize = 2 * 1024 * 1024 // 2MB

var allowedAvatarExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Profile sections are keyed by the plural the frontend expects, not the
// media type enum itself.
var statKeys = map[models.MediaType]string{
	models.MediaTypeAnime: "anime",
	models.MediaTypeMovie: "movies",
	models.MediaTypeBook:  "books",
}

// region --- DTOs ---

// ListStats counts a user's completed and planned entries for one media type.
type ListStats struct {
	Completed int64 `json:"completed"`
	Planned   int64 `json:"planned"`
}

// DurationStats sums the durations of a user's completed entries for one media type.
type DurationStats struct {
	Completed int64 `json:"completed"`
}

// ProfileResponse is a user's public profile with stats and the
// friendship status relative to the viewer.
type ProfileResponse struct {
	ID            uint                     `json:"id"`
	Username      string                   `json:"username"`
	DisplayName   string                   `json:"display_name"`
	AvatarURL     string                   `json:"avatar_url"`
	Gender        string                   `json:"gender"`
	Age           *int                     `json:"age"`
	About         string                   `json:"about"`
	RegisteredAt  time.Time                `json:"registered_at"`
	Stats         map[string]ListStats     `json:"stats"`
	Durations     map[string]DurationStats `json:"durations"`
	IsCurrentUser bool                     `json:"is_current_user"`
	Status        string                   `json:"status"`
}

// NullableInt distinguishes an absent field from an explicit JSON null,
// which a plain *int cannot.
type NullableInt struct {
	Set   bool
	Value *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// ProfileUpdateInput defines the structure for a partial profile update.
// Absent fields are left untouched; an explicit null age clears it.
type ProfileUpdateInput struct {
	DisplayName *string     `json:"display_name"`
	Gender      *string     `json:"gender"`
	Age         NullableInt `json:"age"`
	About       *string     `json:"about"`
}

// SearchUserResponse is a search hit with the caller's friendship status.
type SearchUserResponse struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	Avatar        string `json:"avatar"`
	DisplayName   string `json:"display_name"`
	Status        string `json:"status"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// endregion

// region --- Helpers ---

func listCount(userID uint, listType models.ListType, mediaType models.MediaType) int64 {
	var count int64
	database.DB.Model(&models.UserMediaList{}).
		Joins("JOIN media ON media.id = user_media_lists.media_id").
		Where("user_media_lists.user_id = ? AND user_media_lists.list_type = ? AND media.type = ?",
			userID, listType, mediaType).
		Count(&count)
	return count
}

func completedDuration(userID uint, mediaType models.MediaType) int64 {
	var total int64
	database.DB.Model(&models.UserMediaList{}).
		Joins("JOIN media ON media.id = user_media_lists.media_id").
		Where("user_media_lists.user_id = ? AND user_media_lists.list_type = ? AND media.type = ?",
			userID, models.ListCompleted, mediaType).
		Select("COALESCE(SUM(media.duration), 0)").
		Scan(&total)
	return total
}

// viewerFriendshipStatus describes the relationship row between viewer
// and profile owner from the viewer's side. Pending rows carry their
// direction so the frontend can render the right action.
func viewerFriendshipStatus(viewerID, ownerID uint) string {
	if viewerID == 0 || viewerID == ownerID {
		return "none"
	}

	relation, err := pairFriendship(viewerID, ownerID)
	if err != nil || relation == nil {
		return "none"
	}

	if relation.Status != models.StatusPending {
		return string(relation.Status)
	}
	if relation.FriendID == viewerID {
		return "pending incoming"
	}
	return "pending outgoing"
}

// endregion

// GetProfile godoc
// @Summary      Get a user's profile
// @Description  Returns profile fields, per-type list stats and completed durations. With media_type and list_type query parameters it instead returns that sub-list annotated with the caller's own flags.
// @Tags         users
// @Produce      json
// @Param        username   path   string  true   "Username"
// @Param        media_type query  string  false  "Media type for a sub-list (book, movie, anime)"
// @Param        list_type  query  string  false  "List type for a sub-list (planned, completed, favorite)"
// @Success      200 {object} ProfileResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /users/{username} [get]
func GetProfile(c *gin.Context) {
	viewerID := auth.ViewerID(c)

	var user models.User
	if err := database.DB.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	mediaType := c.Query("media_type")
	listType := c.Query("list_type")
	if mediaType != "" && listType != "" {
		getProfileSubList(c, user, viewerID, mediaType, listType)
		return
	}

	stats := make(map[string]ListStats, len(statKeys))
	durations := make(map[string]DurationStats, len(statKeys))
	for mt, key := range statKeys {
		stats[key] = ListStats{
			Completed: listCount(user.ID, models.ListCompleted, mt),
			Planned:   listCount(user.ID, models.ListPlanned, mt),
		}
		durations[key] = DurationStats{
			Completed: completedDuration(user.ID, mt),
		}
	}

	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Username
	}

	c.JSON(http.StatusOK, ProfileResponse{
		ID:            user.ID,
		Username:      user.Username,
		DisplayName:   displayName,
		AvatarURL:     user.AvatarFilename,
		Gender:        user.Gender,
		Age:           user.Age,
		About:         user.About,
		RegisteredAt:  user.CreatedAt,
		Stats:         stats,
		Durations:     durations,
		IsCurrentUser: viewerID == user.ID,
		Status:        viewerFriendshipStatus(viewerID, user.ID),
	})
}

// getProfileSubList serves the media_type+list_type variant of the
// profile endpoint: one of the owner's lists, annotated with the
// VIEWER's flags so the caller sees their own relationship to each item.
func getProfileSubList(c *gin.Context, owner models.User, viewerID uint, mediaType, listType string) {
	if !models.ValidMediaType(mediaType) || !models.ValidListType(listType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media or list type"})
		return
	}

	var entries []models.UserMediaList
	err := database.DB.
		Select("user_media_lists.*").
		Preload("Media").
		Joins("JOIN media ON media.id = user_media_lists.media_id").
		Where("user_media_lists.user_id = ? AND user_media_lists.list_type = ? AND media.type = ?",
			owner.ID, listType, mediaType).
		Order("user_media_lists.added_at DESC").
		Find(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve list"})
		return
	}

	mediaIDs := make([]uint, len(entries))
	for i, entry := range entries {
		mediaIDs[i] = entry.MediaID
	}

	statuses, err := listStatusesFor(viewerID, mediaIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load list statuses"})
		return
	}

	items := make([]MediaListItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, newMediaListItem(entry.Media, statuses[entry.MediaID]))
	}

	c.JSON(http.StatusOK, items)
}

// UpdateProfile godoc
// @Summary      Update the caller's profile
// @Description  Applies a partial update. All field violations are reported together.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProfileUpdateInput true "Fields to update"
// @Success      200 {object} map[string]string "{"message": "Profile updated successfully"}"
// @Failure      400 {object} map[string]map[string]string "{"errors": {"age": "..."}}"
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /users/me [put]
func UpdateProfile(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input ProfileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fieldErrors := make(map[string]string)
	updates := make(map[string]interface{})

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if len(name) < 1 || len(name) > 50 {
			fieldErrors["display_name"] = "Display name must be between 1 and 50 characters"
		} else {
			updates["display_name"] = name
		}
	}

	if input.Gender != nil {
		switch *input.Gender {
		case "male", "female", "":
			updates["gender"] = *input.Gender
		default:
			fieldErrors["gender"] = "Gender must be male, female or empty"
		}
	}

	if input.Age.Set {
		switch {
		case input.Age.Value == nil:
			updates["age"] = nil
		case *input.Age.Value < 5 || *input.Age.Value > 120:
			fieldErrors["age"] = "Age must be between 5 and 120"
		default:
			updates["age"] = *input.Age.Value
		}
	}

	if input.About != nil {
		about := strings.TrimSpace(*input.About)
		if len(about) > 500 {
			fieldErrors["about"] = "About must be at most 500 characters"
		} else {
			updates["about"] = about
		}
	}

	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
	})
	if err != nil {
		logger.Get().WithError(err).Error("profile update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// UploadAvatar godoc
// @Summary      Upload an avatar
// @Description  Accepts a png/jpg/jpeg/gif image up to 2MB and stores it under a generated filename.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Avatar image"
// @Success      200 {object} map[string]string "{"avatar_url": "..."}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /users/avatar [post]
func UploadAvatar(c *gin.Context) {
	userID, _ := c.Get("userID")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}

	if file.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 2MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAvatarExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}

	filename := fmt.Sprintf("user_%d_%s%s", userID, uuid.New().String(), ext)
	uploadDir := config.AppConfig.UploadDir
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		logger.Get().WithError(err).Error("failed to create upload directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File upload failed"})
		return
	}

	if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, filename)); err != nil {
		logger.Get().WithError(err).Error("avatar upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File upload failed"})
		return
	}

	err = database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_filename", filename).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": filename})
}

// GetUserFriends godoc
// @Summary      Get a user's friends preview
// @Description  Returns up to five accepted friends of the given user.
// @Tags         users
// @Produce      json
// @Param        username path string true "Username"
// @Success      200 {object} map[string][]UserSummary "{"friends": [...]}"
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /users/{username}/friends [get]
func GetUserFriends(c *gin.Context) {
	var user models.User
	if err := database.DB.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var friendships []models.Friendship
	err := database.DB.
		Where("(user_id = ? OR friend_id = ?) AND status = ?", user.ID, user.ID, models.StatusAccepted).
		Limit(5).
		Find(&friendships).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	friends := make([]UserSummary, 0, len(friendships))
	for _, f := range friendships {
		counterpart := f.FriendID
		if f.FriendID == user.ID {
			counterpart = f.UserID
		}

		var friend models.User
		if err := database.DB.First(&friend, counterpart).Error; err != nil {
			continue
		}
		friends = append(friends, newUserSummary(friend))
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// SearchUsers godoc
// @Summary      Search for users
// @Description  Searches usernames and display names, returning up to ten hits with friendship status.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Search query"
// @Success      200 {array} SearchUserResponse
// @Failure      401 {object} ErrorResponse
// @Router       /users [get]
func SearchUsers(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	query := database.DB.Model(&models.User{})
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("LOWER(username) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?)", pattern, pattern)
	}

	var users []models.User
	if err := query.Limit(10).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	response := make([]SearchUserResponse, 0, len(users))
	for _, user := range users {
		status := "none"
		if user.ID != viewerID.(uint) {
			if relation, err := pairFriendship(viewerID.(uint), user.ID); err == nil && relation != nil {
				status = string(relation.Status)
			}
		}

		response = append(response, SearchUserResponse{
			ID:            user.ID,
			Username:      user.Username,
			Avatar:        user.AvatarFilename,
			DisplayName:   user.DisplayName,
			Status:        status,
			IsCurrentUser: user.ID == viewerID.(uint),
		})
	}

	c.JSON(http.StatusOK, response)
}
