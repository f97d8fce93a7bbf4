package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
)

// Booking reserves a property for the half-open interval [CheckIn, CheckOut).
// Two approved bookings on the same property must never overlap.
type Booking struct {
	gorm.Model
	PropertyID uint      `json:"propertyID" gorm:"index:idx_booking_property_status"`
	GuestID    uint      `json:"guestID" gorm:"index"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'pending';index:idx_booking_property_status"` // pending, approved, rejected, cancelled

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Guest    *User     `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
}
