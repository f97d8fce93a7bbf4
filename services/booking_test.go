package services

import (
	"errors"
	"sync"
	"testing"

	"homestay-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRejectsInvalidInput(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)
	svc := NewBookingService(db)

	t.Run("past check-in", func(t *testing.T) {
		_, err := svc.Create(asActor(guest), property.ID, day(-2), day(1))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("zero nights", func(t *testing.T) {
		_, err := svc.Create(asActor(guest), property.ID, day(3), day(3))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := svc.Create(asActor(guest), property.ID, day(5), day(3))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("host cannot book", func(t *testing.T) {
		_, err := svc.Create(asActor(host), property.ID, day(3), day(5))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown property", func(t *testing.T) {
		_, err := svc.Create(asActor(guest), property.ID+1000, day(3), day(5))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count, "no booking should have been persisted")
}

func TestCreateBookingCreatesCompanionMessage(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)
	svc := NewBookingService(db)

	booking, err := svc.Create(asActor(guest), property.ID, day(10), day(14))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, guest.ID, booking.GuestID)

	var messages []models.Message
	require.NoError(t, db.Where("booking_id = ?", booking.ID).Find(&messages).Error)
	require.Len(t, messages, 1, "exactly one companion message per booking")
	assert.Equal(t, models.BookingStatusPending, messages[0].Status)
	assert.Equal(t, host.ID, messages[0].HostID)
}

func TestCreateBookingOverlapRules(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest := createTestUser(t, db, models.RoleGuest)
	other := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)
	svc := NewBookingService(db)

	// An approved stay on days [10, 14).
	createTestBooking(t, db, property.ID, guest.ID, models.BookingStatusApproved, day(10), day(14))

	t.Run("overlap inside approved range conflicts", func(t *testing.T) {
		_, err := svc.Create(asActor(other), property.ID, day(13), day(16))
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("overlap before approved range conflicts", func(t *testing.T) {
		_, err := svc.Create(asActor(other), property.ID, day(8), day(11))
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("touching boundary does not overlap", func(t *testing.T) {
		booking, err := svc.Create(asActor(other), property.ID, day(14), day(17))
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusPending, booking.Status)
	})

	t.Run("pending bookings never block", func(t *testing.T) {
		createTestBooking(t, db, property.ID, guest.ID, models.BookingStatusPending, day(20), day(24))
		_, err := svc.Create(asActor(other), property.ID, day(21), day(23))
		assert.NoError(t, err)
	})

	t.Run("rejected and cancelled bookings never block", func(t *testing.T) {
		createTestBooking(t, db, property.ID, guest.ID, models.BookingStatusRejected, day(30), day(34))
		createTestBooking(t, db, property.ID, guest.ID, models.BookingStatusCancelled, day(30), day(34))
		_, err := svc.Create(asActor(other), property.ID, day(31), day(33))
		assert.NoError(t, err)
	})
}

func TestIsAvailableBoundaries(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)

	createTestBooking(t, db, property.ID, guest.ID, models.BookingStatusApproved, day(10), day(14))

	cases := []struct {
		name     string
		checkIn  int
		checkOut int
		want     bool
	}{
		{"identical range", 10, 14, false},
		{"contained", 11, 13, false},
		{"containing", 9, 15, false},
		{"left overlap", 8, 11, false},
		{"right overlap", 13, 16, false},
		{"check-in at existing check-out", 14, 17, true},
		{"check-out at existing check-in", 7, 10, true},
		{"disjoint before", 2, 5, true},
		{"disjoint after", 20, 25, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			free, err := IsAvailable(db, property.ID, day(tc.checkIn), day(tc.checkOut))
			require.NoError(t, err)
			assert.Equal(t, tc.want, free)
		})
	}
}

func TestTransitionApprovalSyncsStatuses(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)
	svc := NewBookingService(db)

	booking, err := svc.Create(asActor(guest), property.ID, day(10), day(14))
	require.NoError(t, err)

	var message models.Message
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&message).Error)

	t.Run("invalid target status", func(t *testing.T) {
		_, err := svc.TransitionApproval(asActor(host), message.ID, models.BookingStatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown message", func(t *testing.T) {
		_, err := svc.TransitionApproval(asActor(host), message.ID+1000, models.BookingStatusApproved)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non-owner host is forbidden", func(t *testing.T) {
		stranger := createTestUser(t, db, models.RoleHost)
		_, err := svc.TransitionApproval(asActor(stranger), message.ID, models.BookingStatusApproved)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner approves, both records move together", func(t *testing.T) {
		updated, err := svc.TransitionApproval(asActor(host), message.ID, models.BookingStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusApproved, updated.Status)

		var storedBooking models.Booking
		var storedMessage models.Message
		require.NoError(t, db.First(&storedBooking, booking.ID).Error)
		require.NoError(t, db.First(&storedMessage, message.ID).Error)
		assert.Equal(t, storedBooking.Status, storedMessage.Status)
		assert.Equal(t, models.BookingStatusApproved, storedBooking.Status)
	})

	t.Run("approved is terminal for the workflow", func(t *testing.T) {
		_, err := svc.TransitionApproval(asActor(host), message.ID, models.BookingStatusRejected)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestTransitionApprovalRejectPath(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)
	svc := NewBookingService(db)

	booking, err := svc.Create(asActor(guest), property.ID, day(10), day(14))
	require.NoError(t, err)

	var message models.Message
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&message).Error)

	_, err = svc.TransitionApproval(asActor(host), message.ID, models.BookingStatusRejected)
	require.NoError(t, err)

	var storedBooking models.Booking
	var storedMessage models.Message
	require.NoError(t, db.First(&storedBooking, booking.ID).Error)
	require.NoError(t, db.First(&storedMessage, message.ID).Error)
	assert.Equal(t, models.BookingStatusRejected, storedBooking.Status)
	assert.Equal(t, models.BookingStatusRejected, storedMessage.Status)
}

// Two overlapping pending requests may coexist, but approving the second one
// after the first is approved would break the overlap invariant.
func TestApprovalRechecksAvailability(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest1 := createTestUser(t, db, models.RoleGuest)
	guest2 := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)
	svc := NewBookingService(db)

	first, err := svc.Create(asActor(guest1), property.ID, day(10), day(14))
	require.NoError(t, err)
	second, err := svc.Create(asActor(guest2), property.ID, day(12), day(16))
	require.NoError(t, err)

	var firstMsg, secondMsg models.Message
	require.NoError(t, db.Where("booking_id = ?", first.ID).First(&firstMsg).Error)
	require.NoError(t, db.Where("booking_id = ?", second.ID).First(&secondMsg).Error)

	_, err = svc.TransitionApproval(asActor(host), firstMsg.ID, models.BookingStatusApproved)
	require.NoError(t, err)

	_, err = svc.TransitionApproval(asActor(host), secondMsg.ID, models.BookingStatusApproved)
	assert.ErrorIs(t, err, ErrConflict)

	// Rejecting the losing request is still possible.
	_, err = svc.TransitionApproval(asActor(host), secondMsg.ID, models.BookingStatusRejected)
	assert.NoError(t, err)
}

func TestCancelBooking(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest := createTestUser(t, db, models.RoleGuest)
	admin := createTestUser(t, db, models.RoleAdmin)
	stranger := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)
	svc := NewBookingService(db)

	booking, err := svc.Create(asActor(guest), property.ID, day(10), day(14))
	require.NoError(t, err)

	t.Run("stranger is forbidden", func(t *testing.T) {
		_, err := svc.Cancel(asActor(stranger), booking.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("guest cancels own booking, message follows", func(t *testing.T) {
		_, err := svc.Cancel(asActor(guest), booking.ID)
		require.NoError(t, err)

		var storedBooking models.Booking
		var storedMessage models.Message
		require.NoError(t, db.First(&storedBooking, booking.ID).Error)
		require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&storedMessage).Error)
		assert.Equal(t, models.BookingStatusCancelled, storedBooking.Status)
		assert.Equal(t, models.BookingStatusCancelled, storedMessage.Status)
	})

	t.Run("admin may cancel an approved booking", func(t *testing.T) {
		approved := createTestBooking(t, db, property.ID, guest.ID, models.BookingStatusApproved, day(20), day(24))
		_, err := svc.Cancel(asActor(admin), approved.ID)
		require.NoError(t, err)

		var stored models.Booking
		require.NoError(t, db.First(&stored, approved.ID).Error)
		assert.Equal(t, models.BookingStatusCancelled, stored.Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := svc.Cancel(asActor(guest), booking.ID+1000)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateDatesRevalidates(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)
	svc := NewBookingService(db)

	createTestBooking(t, db, property.ID, guest.ID, models.BookingStatusApproved, day(10), day(14))
	booking, err := svc.Create(asActor(guest), property.ID, day(20), day(24))
	require.NoError(t, err)

	t.Run("moving onto an approved range conflicts", func(t *testing.T) {
		_, err := svc.UpdateDates(asActor(guest), booking.ID, day(11), day(13))
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("past dates rejected", func(t *testing.T) {
		_, err := svc.UpdateDates(asActor(guest), booking.ID, day(-3), day(2))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		stranger := createTestUser(t, db, models.RoleGuest)
		_, err := svc.UpdateDates(asActor(stranger), booking.ID, day(26), day(28))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("valid move persists", func(t *testing.T) {
		_, err := svc.UpdateDates(asActor(guest), booking.ID, day(30), day(33))
		require.NoError(t, err)

		var stored models.Booking
		require.NoError(t, db.First(&stored, booking.ID).Error)
		assert.True(t, stored.CheckIn.Equal(day(30)))
		assert.True(t, stored.CheckOut.Equal(day(33)))
	})

	t.Run("own approved dates do not conflict with themselves", func(t *testing.T) {
		approved := createTestBooking(t, db, property.ID, guest.ID, models.BookingStatusApproved, day(40), day(44))
		_, err := svc.UpdateDates(asActor(guest), approved.ID, day(41), day(45))
		assert.NoError(t, err)
	})
}

func TestDeleteBookingRemovesCompanionMessage(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest := createTestUser(t, db, models.RoleGuest)
	stranger := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)
	svc := NewBookingService(db)

	booking, err := svc.Create(asActor(guest), property.ID, day(10), day(14))
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(asActor(stranger), booking.ID), ErrForbidden)
	require.NoError(t, svc.Delete(asActor(guest), booking.ID))

	var bookingCount, messageCount int64
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", booking.ID).Count(&bookingCount).Error)
	require.NoError(t, db.Model(&models.Message{}).Where("booking_id = ?", booking.ID).Count(&messageCount).Error)
	assert.Zero(t, bookingCount)
	assert.Zero(t, messageCount)

	assert.ErrorIs(t, svc.Delete(asActor(guest), booking.ID), ErrNotFound)
}

// Concurrent approvals of overlapping requests must never both succeed; the
// serialized loser sees Conflict (or a retryable store error under sqlite's
// single-writer model), never a second approval.
func TestConcurrentApprovalAtMostOneSucceeds(t *testing.T) {
	db := openTestDB(t)
	host := createTestUser(t, db, models.RoleHost)
	guest1 := createTestUser(t, db, models.RoleGuest)
	guest2 := createTestUser(t, db, models.RoleGuest)
	property := createTestProperty(t, db, host.ID)
	svc := NewBookingService(db)

	first, err := svc.Create(asActor(guest1), property.ID, day(10), day(14))
	require.NoError(t, err)
	second, err := svc.Create(asActor(guest2), property.ID, day(12), day(16))
	require.NoError(t, err)

	var firstMsg, secondMsg models.Message
	require.NoError(t, db.Where("booking_id = ?", first.ID).First(&firstMsg).Error)
	require.NoError(t, db.Where("booking_id = ?", second.ID).First(&secondMsg).Error)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, messageID := range []uint{firstMsg.ID, secondMsg.ID} {
		wg.Add(1)
		go func(i int, messageID uint) {
			defer wg.Done()
			_, err := svc.TransitionApproval(asActor(host), messageID, models.BookingStatusApproved)
			results[i] = err
		}(i, messageID)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.True(t,
				errors.Is(err, ErrConflict) || errors.Is(err, ErrStoreUnavailable),
				"unexpected error kind: %v", err)
		}
	}
	assert.LessOrEqual(t, successes, 1, "overlapping approvals must not both succeed")

	var approved []models.Booking
	require.NoError(t, db.Where("property_id = ? AND status = ?", property.ID, models.BookingStatusApproved).
		Find(&approved).Error)
	for i := 0; i < len(approved); i++ {
		for j := i + 1; j < len(approved); j++ {
			a, b := approved[i], approved[j]
			overlap := a.CheckOut.After(b.CheckIn) && a.CheckIn.Before(b.CheckOut)
			assert.False(t, overlap, "approved bookings %d and %d overlap", a.ID, b.ID)
		}
	}
}
