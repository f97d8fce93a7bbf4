package models

import (
	"gorm.io/gorm"
)

// Message is the approval request created 1:1 with a booking. It is the
// host's actionable queue entry; its Status is always written in the same
// transaction as the booking's.
type Message struct {
	gorm.Model
	BookingID uint   `json:"bookingID" gorm:"uniqueIndex"`
	HostID    uint   `json:"hostID" gorm:"index"` // owner of the booked property
	Status    string `json:"status" gorm:"type:varchar(20);default:'pending'"`

	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	Host    *User    `json:"host,omitempty" gorm:"foreignKey:HostID"`
}
