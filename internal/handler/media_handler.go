package handler

import (
	"net/http"
	"strconv"
	"time"

	"mediatrack/backend/internal/auth"
	"mediatrack/backend/internal/database"
	"mediatrack/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// The catalog always serves fixed-size pages.
const catalogPageSize = 20

// region --- DTOs ---

// MediaListItem is a catalog entry annotated with the viewer's list flags.
type MediaListItem struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	CoverURL    string  `json:"cover_url"`
	Rating      float64 `json:"rating"`
	ReleaseYear int     `json:"release_year"`
	IsPlanned   bool    `json:"is_planned"`
	IsCompleted bool    `json:"is_completed"`
	IsFavorite  bool    `json:"is_favorite"`
}

// CatalogResponse is one page of the media catalog.
type CatalogResponse struct {
	Items       []MediaListItem `json:"items"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
}

// MediaDetailResponse carries the full record for a single media entry.
type MediaDetailResponse struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Author      string   `json:"author"`
	ReleaseYear int      `json:"release_year"`
	Description string   `json:"description"`
	Duration    *int     `json:"duration"`
	CoverURL    string   `json:"cover_url"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"rating_count"`
	Genres      []string `json:"genres"`
}

// UserListEntry is one row of a user's public list.
type UserListEntry struct {
	MediaID uint   `json:"media_id"`
	Title   string `json:"title"`
	AddedAt string `json:"added_at"`
}

func newMediaListItem(media models.Media, status models.ListStatus) MediaListItem {
	return MediaListItem{
		ID:          media.ID,
		Title:       media.Title,
		Type:        string(media.Type),
		CoverURL:    media.CoverURL,
		Rating:      media.ExternalRating,
		ReleaseYear: media.ReleaseYear,
		IsPlanned:   status.IsPlanned,
		IsCompleted: status.IsCompleted,
		IsFavorite:  status.IsFavorite,
	}
}

// endregion

// region --- Helpers ---

// listStatusesFor loads a user's list memberships for a set of media IDs
// and folds them into per-media tri-state flags. A zero viewer ID yields
// an empty map, which reads as all-false.
func listStatusesFor(viewerID uint, mediaIDs []uint) (map[uint]models.ListStatus, error) {
	statuses := make(map[uint]models.ListStatus)
	if viewerID == 0 || len(mediaIDs) == 0 {
		return statuses, nil
	}

	var entries []models.UserMediaList
	err := database.DB.
		Where("user_id = ? AND media_id IN (?)", viewerID, mediaIDs).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		status := statuses[entry.MediaID]
		status.Apply(entry.ListType)
		statuses[entry.MediaID] = status
	}
	return statuses, nil
}

// endregion

// GetMediaCatalog godoc
// @Summary      Browse the media catalog
// @Description  Returns a filtered, sorted page of the catalog. Items carry the caller's list flags when a token is supplied.
// @Tags         media
// @Produce      json
// @Param        type     query  string  false  "Filter by media type (book, movie, anime)"
// @Param        query    query  string  false  "Case-insensitive search on title and author"
// @Param        sort_by  query  string  false  "Sort order (popularity, newest)"  default(popularity)
// @Param        page     query  int     false  "Page number"  default(1)
// @Success      200  {object}  CatalogResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /media [get]
func GetMediaCatalog(c *gin.Context) {
	viewerID := auth.ViewerID(c)
	page := pageParam(c)

	query := database.DB.Model(&models.Media{})

	if mediaType := c.Query("type"); mediaType != "" && models.ValidMediaType(mediaType) {
		query = query.Where("type = ?", mediaType)
	}

	if search := c.Query("query"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern)
	}

	switch c.DefaultQuery("sort_by", "popularity") {
	case "newest":
		query = query.Order("release_year DESC")
	default:
		query = query.Order("external_rating_count DESC")
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count media"})
		return
	}

	var media []models.Media
	offset := (page - 1) * catalogPageSize
	if err := query.Offset(offset).Limit(catalogPageSize).Find(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve media"})
		return
	}

	mediaIDs := make([]uint, len(media))
	for i, m := range media {
		mediaIDs[i] = m.ID
	}

	statuses, err := listStatusesFor(viewerID, mediaIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load list statuses"})
		return
	}

	items := make([]MediaListItem, 0, len(media))
	for _, m := range media {
		items = append(items, newMediaListItem(m, statuses[m.ID]))
	}

	c.JSON(http.StatusOK, CatalogResponse{
		Items:       items,
		TotalPages:  totalPages(totalItems, catalogPageSize),
		CurrentPage: page,
	})
}

// GetMediaByID godoc
// @Summary      Get a single media entry
// @Description  Retrieves the full record for one media entry, including its genres.
// @Tags         media
// @Produce      json
// @Param        id path int true "Media ID"
// @Success      200 {object} MediaDetailResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Media not found"
// @Router       /media/{id} [get]
func GetMediaByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media ID"})
		return
	}

	var media models.Media
	if err := database.DB.Preload("Genres").First(&media, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		return
	}

	genres := make([]string, 0, len(media.Genres))
	for _, genre := range media.Genres {
		if genre != nil {
			genres = append(genres, genre.Name)
		}
	}

	c.JSON(http.StatusOK, MediaDetailResponse{
		ID:          media.ID,
		Title:       media.Title,
		Type:        string(media.Type),
		Author:      media.Author,
		ReleaseYear: media.ReleaseYear,
		Description: media.Description,
		Duration:    media.Duration,
		CoverURL:    media.CoverURL,
		Rating:      media.ExternalRating,
		RatingCount: media.ExternalRatingCount,
		Genres:      genres,
	})
}

// GetMediaStatus godoc
// @Summary      Get the caller's list flags for a media entry
// @Description  Returns the tri-state list membership. All flags are false without a token.
// @Tags         media
// @Produce      json
// @Param        id path int true "Media ID"
// @Success      200 {object} models.ListStatus
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Media not found"
// @Router       /media/{id}/status [get]
func GetMediaStatus(c *gin.Context) {
	viewerID := auth.ViewerID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media ID"})
		return
	}

	var media models.Media
	if err := database.DB.First(&media, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		return
	}

	statuses, err := listStatusesFor(viewerID, []uint{media.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load list status"})
		return
	}

	c.JSON(http.StatusOK, statuses[media.ID])
}

// GetUserMediaList godoc
// @Summary      Get one of a user's lists
// @Description  Returns the entries of a user's planned, completed or favorite list, newest first.
// @Tags         media
// @Produce      json
// @Param        id        path   int     true  "User ID"
// @Param        list_type query  string  true  "List type (planned, completed, favorite)"
// @Success      200 {array} UserListEntry
// @Failure      400 {object} ErrorResponse
// @Router       /media/user/{id} [get]
func GetUserMediaList(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	listType := c.Query("list_type")
	if !models.ValidListType(listType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list type"})
		return
	}

	var entries []models.UserMediaList
	err = database.DB.
		Preload("Media").
		Where("user_id = ? AND list_type = ?", userID, listType).
		Order("added_at DESC").
		Find(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve list"})
		return
	}

	response := make([]UserListEntry, 0, len(entries))
	for _, entry := range entries {
		response = append(response, UserListEntry{
			MediaID: entry.MediaID,
			Title:   entry.Media.Title,
			AddedAt: entry.AddedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}
