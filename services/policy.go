package services

import "homestay-server/models"

// Actor is the authenticated caller as seen by the core services.
type Actor struct {
	ID   uint
	Role string
}

type Action int

const (
	ActionCreateProperty Action = iota
	ActionMutateProperty
	ActionActOnMessage
	ActionCreateBooking
	ActionMutateBooking
	ActionListBookings
	ActionMutateReview
	ActionModerate
)

// Resource carries the ownership facts CanAccess needs: OwnerID is the host
// for properties and messages, the guest for bookings and reviews.
type Resource struct {
	OwnerID uint
}

// CanAccess is the single authorization decision point. Handlers look the
// resource up first, so absence surfaces as NotFound before any Forbidden
// decision is made here.
func CanAccess(actor Actor, action Action, res Resource) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}

	switch action {
	case ActionCreateProperty:
		return actor.Role == models.RoleHost
	case ActionMutateProperty:
		return actor.Role == models.RoleHost && actor.ID == res.OwnerID
	case ActionActOnMessage:
		return actor.ID == res.OwnerID
	case ActionCreateBooking:
		return actor.Role == models.RoleGuest && actor.ID == res.OwnerID
	case ActionMutateBooking, ActionListBookings, ActionMutateReview:
		return actor.ID == res.OwnerID
	case ActionModerate:
		return false
	}
	return false
}
