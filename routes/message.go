package routes

import (
	"homestay-server/utils"

	"github.com/kataras/iris/v12"
)

// GetHostMessages returns the authenticated host's approval queue, pending
// requests first.
func GetHostMessages(ctx iris.Context) {
	actor := actorFromCtx(ctx)

	messages, err := bookingService.HostQueue(actor.ID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(messages)
}

type ApprovalInput struct {
	NewStatus string `json:"newStatus" validate:"required,oneof=approved rejected"`
}

// ApproveBookingRequest lets the property owner answer an approval message.
// Message and booking status move together in one transaction.
func ApproveBookingRequest(ctx iris.Context) {
	messageID := ctx.Params().GetUintDefault("id", 0)

	var input ApprovalInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	message, err := bookingService.TransitionApproval(actorFromCtx(ctx), messageID, input.NewStatus)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(message)
}
