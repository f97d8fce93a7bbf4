package services

import (
	"homestay-server/models"

	"gorm.io/gorm"
)

// AdminService covers moderation: blocking users, property approval, and the
// platform statistics dashboard.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) setUserActive(actor Actor, userID uint, active bool) (*models.User, error) {
	if !CanAccess(actor, ActionModerate, Resource{}) {
		return nil, ErrForbidden
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	if err := s.db.Model(&user).Update("is_active", active).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	return &user, nil
}

func (s *AdminService) BlockUser(actor Actor, userID uint) (*models.User, error) {
	return s.setUserActive(actor, userID, false)
}

func (s *AdminService) UnblockUser(actor Actor, userID uint) (*models.User, error) {
	return s.setUserActive(actor, userID, true)
}

// DeleteUser removes a user and everything they own: properties (with their
// images, bookings and reviews), the user's own bookings and reviews, and any
// refresh tokens. gorm soft-deletes do not fire the FK cascades, so the
// dependents are removed explicitly in one transaction.
func (s *AdminService) DeleteUser(actor Actor, userID uint) error {
	if !CanAccess(actor, ActionModerate, Resource{}) {
		return ErrForbidden
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return wrapStoreError(err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var propertyIDs []uint
		if err := tx.Model(&models.Property{}).
			Where("host_id = ?", userID).
			Pluck("id", &propertyIDs).Error; err != nil {
			return wrapStoreError(err)
		}

		if len(propertyIDs) > 0 {
			if err := deletePropertyDependents(tx, propertyIDs); err != nil {
				return err
			}
			if err := tx.Where("host_id = ?", userID).Delete(&models.Property{}).Error; err != nil {
				return wrapStoreError(err)
			}
		}

		var bookingIDs []uint
		if err := tx.Model(&models.Booking{}).
			Where("guest_id = ?", userID).
			Pluck("id", &bookingIDs).Error; err != nil {
			return wrapStoreError(err)
		}
		if len(bookingIDs) > 0 {
			if err := tx.Where("booking_id IN ?", bookingIDs).Delete(&models.Message{}).Error; err != nil {
				return wrapStoreError(err)
			}
			if err := tx.Where("guest_id = ?", userID).Delete(&models.Booking{}).Error; err != nil {
				return wrapStoreError(err)
			}
		}

		if err := tx.Where("guest_id = ?", userID).Delete(&models.Review{}).Error; err != nil {
			return wrapStoreError(err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return wrapStoreError(err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
}

// deletePropertyDependents clears images, bookings (with companion messages)
// and reviews for the given properties.
func deletePropertyDependents(tx *gorm.DB, propertyIDs []uint) error {
	var bookingIDs []uint
	if err := tx.Model(&models.Booking{}).
		Where("property_id IN ?", propertyIDs).
		Pluck("id", &bookingIDs).Error; err != nil {
		return wrapStoreError(err)
	}
	if len(bookingIDs) > 0 {
		if err := tx.Where("booking_id IN ?", bookingIDs).Delete(&models.Message{}).Error; err != nil {
			return wrapStoreError(err)
		}
	}

	if err := tx.Where("property_id IN ?", propertyIDs).Delete(&models.Booking{}).Error; err != nil {
		return wrapStoreError(err)
	}
	if err := tx.Where("property_id IN ?", propertyIDs).Delete(&models.Review{}).Error; err != nil {
		return wrapStoreError(err)
	}
	if err := tx.Where("property_id IN ?", propertyIDs).Delete(&models.PropertyImage{}).Error; err != nil {
		return wrapStoreError(err)
	}
	return nil
}

// DeleteProperty removes a listing and its dependents; owner or admin only.
func (s *AdminService) DeleteProperty(actor Actor, propertyID uint) error {
	var property models.Property
	if err := s.db.First(&property, propertyID).Error; err != nil {
		return wrapStoreError(err)
	}
	if !CanAccess(actor, ActionMutateProperty, Resource{OwnerID: property.HostID}) {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := deletePropertyDependents(tx, []uint{property.ID}); err != nil {
			return err
		}
		if err := tx.Delete(&property).Error; err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
}

func (s *AdminService) ApproveProperty(actor Actor, propertyID uint) (*models.Property, error) {
	if !CanAccess(actor, ActionModerate, Resource{}) {
		return nil, ErrForbidden
	}
	var property models.Property
	if err := s.db.First(&property, propertyID).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	if err := s.db.Model(&property).Update("is_approved", true).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	return &property, nil
}

// RejectProperty declines a pending listing and removes it entirely.
func (s *AdminService) RejectProperty(actor Actor, propertyID uint) error {
	if !CanAccess(actor, ActionModerate, Resource{}) {
		return ErrForbidden
	}
	var property models.Property
	if err := s.db.First(&property, propertyID).Error; err != nil {
		return wrapStoreError(err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := deletePropertyDependents(tx, []uint{property.ID}); err != nil {
			return err
		}
		if err := tx.Delete(&property).Error; err != nil {
			return wrapStoreError(err)
		}
		return nil
	})
}

func (s *AdminService) ListPendingProperties(actor Actor) ([]models.Property, error) {
	if !CanAccess(actor, ActionModerate, Resource{}) {
		return nil, ErrForbidden
	}
	var properties []models.Property
	if err := s.db.Preload("Host").
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Find(&properties).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	return properties, nil
}

type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

type PlatformStats struct {
	TotalUsers       int64       `json:"totalUsers"`
	ActiveUsers      int64       `json:"activeUsers"`
	TotalBookings    int64       `json:"totalBookings"`
	ApprovedBookings int64       `json:"approvedBookings"`
	PopularCities    []CityCount `json:"popularCities"`
	TotalRevenue     float64     `json:"totalRevenue"`
}

// Stats aggregates the admin dashboard numbers. Revenue is the sum of
// nights x nightly price over approved bookings, computed here instead of in
// SQL to stay portable across dialects.
func (s *AdminService) Stats(actor Actor) (*PlatformStats, error) {
	if !CanAccess(actor, ActionModerate, Resource{}) {
		return nil, ErrForbidden
	}

	stats := PlatformStats{PopularCities: []CityCount{}}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, s.db.Model(&models.User{})},
		{&stats.ActiveUsers, s.db.Model(&models.User{}).Where("is_active = ?", true)},
		{&stats.TotalBookings, s.db.Model(&models.Booking{})},
		{&stats.ApprovedBookings, s.db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusApproved)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, wrapStoreError(err)
		}
	}

	if err := s.db.Model(&models.Property{}).
		Select("city, COUNT(id) AS count").
		Group("city").
		Order("count DESC").
		Limit(5).
		Scan(&stats.PopularCities).Error; err != nil {
		return nil, wrapStoreError(err)
	}

	var approved []models.Booking
	if err := s.db.Preload("Property").
		Where("status = ?", models.BookingStatusApproved).
		Find(&approved).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	for _, b := range approved {
		if b.Property == nil {
			continue
		}
		nights := int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
		if nights < 1 {
			nights = 1
		}
		stats.TotalRevenue += float64(nights) * b.Property.NightlyPrice
	}

	return &stats, nil
}
