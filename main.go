package main

import (
	"os"

	"homestay-server/routes"
	"homestay-server/storage"
	"homestay-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	db := storage.InitializeDB()
	storage.InitializeRedis()
	routes.InitServices(db)

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	protected := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Post("/refresh", routes.RefreshTokens)
		auth.Post("/logout", routes.Logout)
	}

	user := app.Party("/api/user", protected, utils.BlockedUserMiddleware)
	{
		user.Get("/profile", routes.GetProfile)
		user.Patch("/profile", routes.UpdateProfile)
	}

	property := app.Party("/api/property")
	{
		property.Get("/", routes.GetProperties)
		property.Get("/search", routes.SearchProperties)
		property.Get("/{id:uint}", routes.GetProperty)
		property.Get("/owner/{id:uint}", routes.GetPropertiesByOwner)
		property.Get("/{id:uint}/images", routes.ListPropertyImages)

		mutating := property.Party("/", protected, utils.BlockedUserMiddleware)
		mutating.Post("/", routes.CreateProperty)
		mutating.Put("/{id:uint}", routes.UpdateProperty)
		mutating.Delete("/{id:uint}", routes.DeleteProperty)
		mutating.Post("/{id:uint}/images", routes.CreatePropertyImage)
		mutating.Post("/{id:uint}/booking", routes.CreateBooking)
		mutating.Get("/{id:uint}/bookings", routes.GetPropertyBookings)
		mutating.Get("/{id:uint}/reviews", routes.ListPropertyReviews)
		mutating.Post("/{id:uint}/reviews", routes.CreateReview)
	}

	booking := app.Party("/api/booking", protected, utils.BlockedUserMiddleware)
	{
		booking.Get("/{id:uint}", routes.GetBooking)
		booking.Patch("/{id:uint}", routes.UpdateBooking)
		booking.Put("/{id:uint}/cancel", routes.CancelBooking)
		booking.Delete("/{id:uint}", routes.DeleteBooking)
		booking.Get("/guest/{id:uint}", routes.GetGuestBookings)
	}

	messages := app.Party("/api/messages", protected, utils.BlockedUserMiddleware)
	{
		messages.Get("/host", routes.GetHostMessages)
		messages.Post("/{id:uint}/approve", routes.ApproveBookingRequest)
	}

	review := app.Party("/api/review", protected, utils.BlockedUserMiddleware)
	{
		review.Patch("/{id:uint}", routes.UpdateReview)
		review.Delete("/{id:uint}", routes.DeleteReview)
	}

	image := app.Party("/api/image", protected, utils.BlockedUserMiddleware)
	{
		image.Delete("/{id:uint}", routes.DeletePropertyImage)
	}

	admin := app.Party("/api/admin", protected, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Put("/user/{id:uint}/block", routes.AdminBlockUser)
		admin.Put("/user/{id:uint}/unblock", routes.AdminUnblockUser)
		admin.Delete("/user/{id:uint}", routes.AdminDeleteUser)
		admin.Get("/properties/pending", routes.AdminListPendingProperties)
		admin.Put("/property/{id:uint}/approve", routes.AdminApproveProperty)
		admin.Put("/property/{id:uint}/reject", routes.AdminRejectProperty)
		admin.Get("/stats", routes.AdminStats)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	app.Listen(":" + port)
}
