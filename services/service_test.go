package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"servicehub-server/config"
	"servicehub-server/database"
	"servicehub-server/models"
)

// newTestDB opens a fresh in-memory database per test. A single
// connection keeps every gorm session on the same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		FullName:     "Test Customer",
		Email:        email,
		PasswordHash: "x",
		Phone:        "9999999999",
		Role:         models.RoleUser,
		Status:       models.AccountActive,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestProvider(t *testing.T, db *gorm.DB, email string, rate float64, approval models.ApprovalStatus) models.ServiceProvider {
	t.Helper()
	user := models.User{
		FullName:     "Test Provider",
		Email:        email,
		PasswordHash: "x",
		Phone:        "8888888888",
		Role:         models.RoleProvider,
		Status:       models.AccountActive,
	}
	require.NoError(t, db.Create(&user).Error)

	provider := models.ServiceProvider{
		UserID:             user.ID,
		City:               "Mumbai",
		HourlyRate:         rate,
		CredentialInfo:     "Licensed electrician, reg no 4411",
		CredentialDocument: "/docs/license-4411.pdf",
		IsAvailable:        true,
		ApprovalStatus:     approval,
	}
	require.NoError(t, db.Create(&provider).Error)
	provider.User = user
	return provider
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) models.ServiceCategory {
	t.Helper()
	category := models.ServiceCategory{
		Name:     name,
		Type:     models.CategoryHomeServices,
		IsActive: true,
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uint) models.Address {
	t.Helper()
	address := models.Address{
		UserID:  userID,
		Label:   "Home",
		Street:  "12 MG Road",
		City:    "Mumbai",
		State:   "Maharashtra",
		Pincode: "400001",
		Country: "India",
	}
	require.NoError(t, db.Create(&address).Error)
	return address
}

// bookingFixture wires up everything a booking needs and returns the
// created booking in PENDING state.
type bookingFixture struct {
	db       *gorm.DB
	svc      *BookingService
	customer models.User
	provider models.ServiceProvider
	category models.ServiceCategory
	address  models.Address
	booking  models.BookingResponse
}

func newBookingFixture(t *testing.T, db *gorm.DB) *bookingFixture {
	t.Helper()
	f := &bookingFixture{
		db:       db,
		svc:      NewBookingService(db),
		customer: createTestUser(t, db, "customer@example.com"),
		provider: createTestProvider(t, db, "provider@example.com", 500, models.ApprovalApproved),
		category: createTestCategory(t, db, "Electrical"),
	}
	f.address = createTestAddress(t, db, f.customer.ID)

	booking, err := f.svc.Create(f.customer.ID, models.CreateBookingRequest{
		ProviderID:  f.provider.ID,
		CategoryID:  f.category.ID,
		AddressID:   f.address.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	f.booking = *booking
	return f
}

// setBookingStatus force-writes a status, bypassing the state machine,
// for arranging test preconditions.
func setBookingStatus(t *testing.T, db *gorm.DB, bookingID uint, status models.BookingStatus) {
	t.Helper()
	require.NoError(t, db.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status).Error)
}
