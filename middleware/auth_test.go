package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"servicehub-server/config"
	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/utils"
)

func setupAuthTest(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Load()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	database.DB = db
	return db
}

func protectedRouter(roles ...models.UserRole) *gin.Engine {
	router := gin.New()
	group := router.Group("/protected")
	group.Use(AuthMiddleware())
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})
	return router
}

func createUser(t *testing.T, db *gorm.DB, role models.UserRole, status models.AccountStatus) models.User {
	t.Helper()
	user := models.User{
		FullName:     "Auth Test",
		Email:        string(role) + "-" + string(status) + "@example.com",
		PasswordHash: "x",
		Phone:        "7777777777",
		Role:         role,
		Status:       status,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	setupAuthTest(t)
	router := protectedRouter()

	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	setupAuthTest(t)
	router := protectedRouter()

	w := doRequest(router, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	db := setupAuthTest(t)
	user := createUser(t, db, models.RoleUser, models.AccountActive)
	router := protectedRouter()

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	require.NoError(t, err)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsSuspendedUser(t *testing.T) {
	db := setupAuthTest(t)
	user := createUser(t, db, models.RoleUser, models.AccountSuspended)
	router := protectedRouter()

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	require.NoError(t, err)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsDeletedUser(t *testing.T) {
	db := setupAuthTest(t)
	user := createUser(t, db, models.RoleUser, models.AccountActive)
	router := protectedRouter()

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleGuardsByRole(t *testing.T) {
	db := setupAuthTest(t)
	customer := createUser(t, db, models.RoleUser, models.AccountActive)
	admin := createUser(t, db, models.RoleAdmin, models.AccountActive)
	router := protectedRouter(models.RoleAdmin)

	customerToken, err := utils.GenerateToken(customer.ID, string(customer.Role))
	require.NoError(t, err)
	adminToken, err := utils.GenerateToken(admin.ID, string(admin.Role))
	require.NoError(t, err)

	w := doRequest(router, customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
