package services

import (
	"errors"
	"time"

	"homestay-server/models"

	"gorm.io/gorm"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CanReview reports whether the guest may review the property: no review for
// the pair yet, and at least one completed stay (approved booking whose
// check-out is already in the past).
func (s *ReviewService) CanReview(guestID, propertyID uint) (bool, error) {
	var review models.Review
	err := s.db.Where("property_id = ? AND guest_id = ?", propertyID, guestID).First(&review).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, wrapStoreError(err)
	}
	return s.hasCompletedStay(guestID, propertyID)
}

func (s *ReviewService) hasCompletedStay(guestID, propertyID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Booking{}).
		Where("property_id = ? AND guest_id = ? AND status = ? AND check_out < ?",
			propertyID, guestID, models.BookingStatusApproved, time.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return false, wrapStoreError(err)
	}
	return count > 0, nil
}

// Create persists a review for a completed stay. One review per guest per
// property.
func (s *ReviewService) Create(actor Actor, propertyID uint, stars int, comment string) (*models.Review, error) {
	if actor.Role != models.RoleGuest {
		return nil, ErrForbidden
	}

	var property models.Property
	if err := s.db.First(&property, propertyID).Error; err != nil {
		return nil, wrapStoreError(err)
	}

	var existing models.Review
	err := s.db.Where("property_id = ? AND guest_id = ?", propertyID, actor.ID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyReviewed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStoreError(err)
	}

	eligible, err := s.hasCompletedStay(actor.ID, propertyID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	review := models.Review{
		GuestID:    actor.ID,
		PropertyID: propertyID,
		Stars:      stars,
		Comment:    comment,
	}
	if err := s.db.Create(&review).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	return &review, nil
}

// ListByProperty returns a property's reviews newest first plus the average
// star rating.
func (s *ReviewService) ListByProperty(propertyID uint) ([]models.Review, float64, error) {
	var reviews []models.Review
	if err := s.db.Preload("Guest").
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, 0, wrapStoreError(err)
	}

	average := 0.0
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Stars
		}
		average = float64(total) / float64(len(reviews))
	}
	return reviews, average, nil
}

// Update replaces a review's stars and comment; only the author or an admin
// may do it.
func (s *ReviewService) Update(actor Actor, reviewID uint, stars int, comment string) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	if !CanAccess(actor, ActionMutateReview, Resource{OwnerID: review.GuestID}) {
		return nil, ErrForbidden
	}
	if err := s.db.Model(&review).
		Updates(map[string]interface{}{"stars": stars, "comment": comment}).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	return &review, nil
}

// Delete removes a review; only the author or an admin may do it. The row is
// removed for real so the guest+property unique index does not block a later
// review from the same guest.
func (s *ReviewService) Delete(actor Actor, reviewID uint) error {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return wrapStoreError(err)
	}
	if !CanAccess(actor, ActionMutateReview, Resource{OwnerID: review.GuestID}) {
		return ErrForbidden
	}
	if err := s.db.Unscoped().Delete(&review).Error; err != nil {
		return wrapStoreError(err)
	}
	return nil
}
