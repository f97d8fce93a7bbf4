package services

import (
	"time"

	"homestay-server/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService drives the booking lifecycle: creation with availability
// checking, and the approval workflow that keeps the companion message and
// the booking status in lockstep.
type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// lockProperty loads the property inside tx, taking a row lock on postgres so
// concurrent bookings of the same property serialize on it. sqlite allows a
// single writer at a time and rejects FOR UPDATE syntax.
func lockProperty(tx *gorm.DB, propertyID uint, property *models.Property) error {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q.First(property, propertyID).Error
}

func validateDates(checkIn, checkOut time.Time) error {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return ErrInvalidRange
	}
	if checkOut.Sub(checkIn) < 24*time.Hour {
		return ErrInvalidRange
	}
	return nil
}

// Create validates and persists a new pending booking together with its
// companion approval message. The availability check and both inserts run in
// one transaction; a failure of either write rolls back the whole operation.
func (s *BookingService) Create(actor Actor, propertyID uint, checkIn, checkOut time.Time) (*models.Booking, error) {
	if !CanAccess(actor, ActionCreateBooking, Resource{OwnerID: actor.ID}) {
		return nil, ErrForbidden
	}
	if err := validateDates(checkIn, checkOut); err != nil {
		return nil, err
	}

	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := lockProperty(tx, propertyID, &property); err != nil {
			return wrapStoreError(err)
		}

		free, err := IsAvailable(tx, propertyID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if !free {
			return ErrConflict
		}

		booking = models.Booking{
			PropertyID: propertyID,
			GuestID:    actor.ID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Status:     models.BookingStatusPending,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return wrapStoreError(err)
		}

		message := models.Message{
			BookingID: booking.ID,
			HostID:    property.HostID,
			Status:    models.BookingStatusPending,
		}
		if err := tx.Create(&message).Error; err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// TransitionApproval is the host's answer to an approval message. It moves a
// pending booking to approved or rejected, updating message and booking in
// the same transaction so a reader never observes them apart. Approval
// re-checks availability: two overlapping pending requests may coexist, but
// only one of them can ever become approved.
func (s *BookingService) TransitionApproval(actor Actor, messageID uint, newStatus string) (*models.Message, error) {
	if newStatus != models.BookingStatusApproved && newStatus != models.BookingStatusRejected {
		return nil, ErrInvalidStatus
	}

	var message models.Message
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&message, messageID).Error; err != nil {
			return wrapStoreError(err)
		}

		var booking models.Booking
		if err := tx.First(&booking, message.BookingID).Error; err != nil {
			return wrapStoreError(err)
		}

		var property models.Property
		if err := lockProperty(tx, booking.PropertyID, &property); err != nil {
			return wrapStoreError(err)
		}

		if !CanAccess(actor, ActionActOnMessage, Resource{OwnerID: property.HostID}) {
			return ErrForbidden
		}

		if booking.Status != models.BookingStatusPending {
			return ErrInvalidStatus
		}

		if newStatus == models.BookingStatusApproved {
			free, err := isAvailableExcluding(tx, booking.PropertyID, booking.CheckIn, booking.CheckOut, booking.ID)
			if err != nil {
				return err
			}
			if !free {
				return ErrConflict
			}
		}

		if err := tx.Model(&booking).Update("status", newStatus).Error; err != nil {
			return wrapStoreError(err)
		}
		if err := tx.Model(&message).Update("status", newStatus).Error; err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Cancel withdraws a booking. Guests may cancel their own bookings from any
// state; the companion message follows in the same transaction.
func (s *BookingService) Cancel(actor Actor, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	if !CanAccess(actor, ActionMutateBooking, Resource{OwnerID: booking.GuestID}) {
		return nil, ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&booking).Update("status", models.BookingStatusCancelled).Error; err != nil {
			return wrapStoreError(err)
		}
		if err := tx.Model(&models.Message{}).
			Where("booking_id = ?", booking.ID).
			Update("status", models.BookingStatusCancelled).Error; err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateDates moves a booking to a new interval, re-running the same
// validation as creation. An unchecked overwrite could smuggle an overlapping
// range past the availability invariant.
func (s *BookingService) UpdateDates(actor Actor, bookingID uint, checkIn, checkOut time.Time) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	if !CanAccess(actor, ActionMutateBooking, Resource{OwnerID: booking.GuestID}) {
		return nil, ErrForbidden
	}
	if err := validateDates(checkIn, checkOut); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := lockProperty(tx, booking.PropertyID, &property); err != nil {
			return wrapStoreError(err)
		}

		free, err := isAvailableExcluding(tx, booking.PropertyID, checkIn, checkOut, booking.ID)
		if err != nil {
			return err
		}
		if !free {
			return ErrConflict
		}

		if err := tx.Model(&booking).
			Updates(map[string]interface{}{"check_in": checkIn, "check_out": checkOut}).Error; err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Delete removes a booking and its companion message.
func (s *BookingService) Delete(actor Actor, bookingID uint) error {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		return wrapStoreError(err)
	}
	if !CanAccess(actor, ActionMutateBooking, Resource{OwnerID: booking.GuestID}) {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", booking.ID).Delete(&models.Message{}).Error; err != nil {
			return wrapStoreError(err)
		}
		if err := tx.Delete(&booking).Error; err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
}

func (s *BookingService) GetByID(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Property").Preload("Guest").First(&booking, bookingID).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	return &booking, nil
}

// ListByGuest returns a guest's bookings, newest first. Guests only see
// their own list; admins see anyone's.
func (s *BookingService) ListByGuest(actor Actor, guestID uint) ([]models.Booking, error) {
	if !CanAccess(actor, ActionListBookings, Resource{OwnerID: guestID}) {
		return nil, ErrForbidden
	}
	var bookings []models.Booking
	if err := s.db.Preload("Property").
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	return bookings, nil
}

func (s *BookingService) ListByProperty(propertyID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.Preload("Guest").
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	return bookings, nil
}

// HostQueue lists the approval messages addressed to a host, pending first.
func (s *BookingService) HostQueue(hostID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.Preload("Booking").Preload("Booking.Property").Preload("Booking.Guest").
		Where("host_id = ?", hostID).
		Order("status = 'pending' DESC, created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	return messages, nil
}
