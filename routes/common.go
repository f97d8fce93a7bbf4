package routes

import (
	"errors"

	"homestay-server/services"
	"homestay-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

var (
	bookingService *services.BookingService
	reviewService  *services.ReviewService
	adminService   *services.AdminService
)

// InitServices wires the core services to a database handle. Called once
// from main after storage initialization, and from tests with their own DB.
func InitServices(db *gorm.DB) {
	bookingService = services.NewBookingService(db)
	reviewService = services.NewReviewService(db)
	adminService = services.NewAdminService(db)
}

func actorFromCtx(ctx iris.Context) services.Actor {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	return services.Actor{ID: claims.ID, Role: claims.Role}
}

// handleServiceError maps the core error kinds onto transport status codes.
func handleServiceError(err error, ctx iris.Context) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.CreateNotFound(ctx)
	case errors.Is(err, services.ErrForbidden):
		utils.CreateForbidden(ctx)
	case errors.Is(err, services.ErrConflict):
		utils.CreateError(iris.StatusConflict, "Conflict", "Property is already booked for these dates", ctx)
	case errors.Is(err, services.ErrInvalidRange):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid check-in/check-out range", ctx)
	case errors.Is(err, services.ErrInvalidStatus):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Illegal status transition", ctx)
	case errors.Is(err, services.ErrAlreadyReviewed):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "You have already reviewed this property", ctx)
	case errors.Is(err, services.ErrNotEligible):
		utils.CreateError(iris.StatusForbidden, "Forbidden", "A completed stay is required to leave a review", ctx)
	case errors.Is(err, services.ErrStoreUnavailable):
		utils.CreateError(iris.StatusServiceUnavailable, "Service Unavailable", "Storage is temporarily unavailable", ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}
