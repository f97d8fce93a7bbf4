package utils

import (
	"homestay-server/models"
	"homestay-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the caller's ID from the JWT and stores
// it in the request context for downstream handlers.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// AdminOnlyMiddleware ensures the requester has the admin role.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != models.RoleAdmin {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{
			"status": iris.StatusForbidden,
			"title":  "Forbidden",
			"detail": "admin access required",
		})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// BlockedUserMiddleware rejects requests from users an admin has blocked.
// The flag lives in the database, not the token, so a block takes effect
// before the access token expires.
func BlockedUserMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)

	var user models.User
	if err := storage.DB.Select("id, is_active").First(&user, claims.ID).Error; err != nil {
		CreateError(iris.StatusUnauthorized, "Unauthorized", "Unknown user", ctx)
		return
	}
	if user.IsActive != nil && !*user.IsActive {
		CreateError(iris.StatusForbidden, "Forbidden", "Account is blocked", ctx)
		return
	}
	ctx.Next()
}
