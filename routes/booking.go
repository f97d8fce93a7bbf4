package routes

import (
	"time"

	"homestay-server/utils"

	"github.com/kataras/iris/v12"
)

type CreateBookingInput struct {
	CheckIn  time.Time `json:"checkIn" validate:"required"`
	CheckOut time.Time `json:"checkOut" validate:"required"`
}

func CreateBooking(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking, err := bookingService.Create(actorFromCtx(ctx), propertyID, input.CheckIn, input.CheckOut)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(booking)
}

func GetBooking(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	booking, err := bookingService.GetByID(id)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(booking)
}

func GetGuestBookings(ctx iris.Context) {
	guestID := ctx.Params().GetUintDefault("id", 0)

	bookings, err := bookingService.ListByGuest(actorFromCtx(ctx), guestID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(bookings)
}

func GetPropertyBookings(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)

	bookings, err := bookingService.ListByProperty(propertyID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(bookings)
}

type UpdateBookingInput struct {
	CheckIn  time.Time `json:"checkIn" validate:"required"`
	CheckOut time.Time `json:"checkOut" validate:"required"`
}

// UpdateBooking moves a booking to new dates. The same validation as
// creation runs again, so an edit cannot introduce an overlapping range.
func UpdateBooking(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var input UpdateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking, err := bookingService.UpdateDates(actorFromCtx(ctx), id, input.CheckIn, input.CheckOut)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(booking)
}

func CancelBooking(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	booking, err := bookingService.Cancel(actorFromCtx(ctx), id)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(booking)
}

func DeleteBooking(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	if err := bookingService.Delete(actorFromCtx(ctx), id); err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"message": "Booking deleted"})
}
