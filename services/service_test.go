package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"homestay-server/models"
	"homestay-server/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-memory sqlite database with the full
// schema. The shared-cache DSN keeps every connection of the pool on the
// same database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.PerformMigrations(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := models.User{
		FirstName: "Test",
		LastName:  role,
		Email:     fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Password:  "irrelevant",
		Role:      role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestProperty(t *testing.T, db *gorm.DB, hostID uint) *models.Property {
	t.Helper()

	approved := true
	property := models.Property{
		HostID:       hostID,
		Title:        "Sea View Apartment",
		City:         "Lisbon",
		Address:      "1 Harbour Street",
		PropertyType: "apartment",
		NightlyPrice: 120,
		MaxGuests:    4,
		IsApproved:   &approved,
	}
	require.NoError(t, db.Create(&property).Error)
	return &property
}

func createTestBooking(t *testing.T, db *gorm.DB, propertyID, guestID uint, status string, checkIn, checkOut time.Time) *models.Booking {
	t.Helper()

	booking := models.Booking{
		PropertyID: propertyID,
		GuestID:    guestID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     status,
	}
	require.NoError(t, db.Create(&booking).Error)
	return &booking
}

func asActor(user *models.User) Actor {
	return Actor{ID: user.ID, Role: user.Role}
}

// day returns UTC midnight n days from today. Positive offsets keep test
// bookings clear of the no-past-check-in rule.
func day(n int) time.Time {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, n)
}
