package routes

import (
	"encoding/json"
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
)

func setupRouteTest(t *testing.T) *gorm.DB {
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

func statsRequest(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminStatsCounts(t *testing.T) {
	db := setupRouteTest(t)

	users := []models.User{
		{FullName: "Customer", Email: "c@example.com", PasswordHash: "x", Phone: "1", Role: models.RoleUser, Status: models.AccountActive},
		{FullName: "Provider", Email: "p@example.com", PasswordHash: "x", Phone: "2", Role: models.RoleProvider, Status: models.AccountPendingApproval},
	}
	require.NoError(t, db.Create(&users).Error)
	require.NoError(t, db.Create(&models.ServiceProvider{
		UserID: users[1].ID, City: "Pune", HourlyRate: 400, ApprovalStatus: models.ApprovalPending,
	}).Error)

	statuses := []models.BookingStatus{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusInProgress,
		models.BookingStatusCompleted,
		models.BookingStatusCompleted,
	}
	for _, status := range statuses {
		require.NoError(t, db.Create(&models.Booking{
			UserID: users[0].ID, ProviderID: 1, CategoryID: 1, AddressID: 1,
			Status: status, TotalAmount: 400,
		}).Error)
	}

	router := gin.New()
	router.GET("/stats", getAdminStats)

	w := statsRequest(router)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Stats map[string]int64 `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body.Stats["total_users"])
	assert.EqualValues(t, 1, body.Stats["total_providers"])
	assert.EqualValues(t, 1, body.Stats["pending_approvals"])
	assert.EqualValues(t, 5, body.Stats["total_bookings"])
	assert.EqualValues(t, 2, body.Stats["active_bookings"])
	assert.EqualValues(t, 2, body.Stats["completed_bookings"])
}

func TestAdminStatsStoreFailure(t *testing.T) {
	db := setupRouteTest(t)
	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	router := gin.New()
	router.GET("/stats", getAdminStats)

	w := statsRequest(router)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
