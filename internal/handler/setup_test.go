package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"mediatrack/backend/internal/auth"
	"mediatrack/backend/internal/config"
	"mediatrack/backend/internal/database"
	"mediatrack/backend/internal/models"
	"mediatrack/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{
		JWTSecret: "test-secret",
		UploadDir: "testdata/uploads",
	}
}

// setupTestDB points the global DB at a fresh in-memory sqlite database.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db
}

// newTestRouter registers the API routes the way cmd/server does.
func newTestRouter() *gin.Engine {
	router := gin.New()

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", RegisterUser)
			authRoutes.POST("/login", LoginUser)
		}

		mediaRoutes := api.Group("/media")
		{
			mediaRoutes.GET("", auth.OptionalAuthMiddleware(), GetMediaCatalog)
			mediaRoutes.GET("/:id", GetMediaByID)
			mediaRoutes.GET("/:id/status", auth.OptionalAuthMiddleware(), GetMediaStatus)
			mediaRoutes.GET("/user/:id", GetUserMediaList)
			mediaRoutes.POST("/list", auth.AuthMiddleware(), SetListMembership)
		}

		friendRoutes := api.Group("/friends")
		friendRoutes.Use(auth.AuthMiddleware())
		{
			friendRoutes.GET("", GetFriends)
			friendRoutes.GET("/requests", GetFriendRequests)
			friendRoutes.GET("/status/:id", GetFriendshipStatus)
			friendRoutes.POST("/:id/request", SendFriendRequest)
			friendRoutes.POST("/requests/:id/accept", AcceptFriendRequest)
			friendRoutes.POST("/requests/:id/reject", RejectFriendRequest)
			friendRoutes.DELETE("/requests/:id", CancelFriendRequest)
			friendRoutes.DELETE("/:id", RemoveFriend)
		}

		userRoutes := api.Group("/users")
		{
			userRoutes.GET("", auth.AuthMiddleware(), SearchUsers)
			userRoutes.PUT("/me", auth.AuthMiddleware(), UpdateProfile)
			userRoutes.POST("/avatar", auth.AuthMiddleware(), UploadAvatar)
			userRoutes.GET("/:username", auth.OptionalAuthMiddleware(), GetProfile)
			userRoutes.GET("/:username/friends", GetUserFriends)
		}
	}

	return router
}

// createTestUser inserts a user with a bcrypt-hashed password and
// returns it together with a valid token.
func createTestUser(t *testing.T, username string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := jwt.GenerateToken(user.ID)
	require.NoError(t, err)

	return user, token
}

func createTestMedia(t *testing.T, title string, mediaType models.MediaType, ratingCount, year int, duration *int) models.Media {
	t.Helper()

	media := models.Media{
		Title:               title,
		Type:                mediaType,
		ReleaseYear:         year,
		Duration:            duration,
		ExternalRatingCount: ratingCount,
	}
	require.NoError(t, database.DB.Create(&media).Error)
	return media
}

func addListEntry(t *testing.T, userID, mediaID uint, listType models.ListType) {
	t.Helper()

	require.NoError(t, database.DB.Create(&models.UserMediaList{
		UserID:   userID,
		MediaID:  mediaID,
		ListType: listType,
		AddedAt:  time.Now(),
	}).Error)
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}

func intPtr(v int) *int { return &v }
