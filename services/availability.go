package services

import (
	"time"

	"homestay-server/models"

	"gorm.io/gorm"
)

// IsAvailable reports whether [checkIn, checkOut) is free on the property.
// Only approved bookings block a range; pending, rejected and cancelled ones
// never do. Touching boundaries (new check-in == existing check-out) do not
// overlap.
func IsAvailable(db *gorm.DB, propertyID uint, checkIn, checkOut time.Time) (bool, error) {
	return isAvailableExcluding(db, propertyID, checkIn, checkOut, 0)
}

// isAvailableExcluding ignores the booking with the given ID in the overlap
// scan, so a booking's own dates never conflict with itself on update or
// approval.
func isAvailableExcluding(db *gorm.DB, propertyID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	var count int64
	query := db.Model(&models.Booking{}).
		Where("property_id = ? AND status = ? AND check_out > ? AND check_in < ?",
			propertyID, models.BookingStatusApproved, checkIn, checkOut)
	if excludeBookingID != 0 {
		query = query.Where("id <> ?", excludeBookingID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, wrapStoreError(err)
	}
	return count == 0, nil
}
