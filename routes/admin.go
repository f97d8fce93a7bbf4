package routes

import (
	"homestay-server/models"
	"homestay-server/storage"
	"homestay-server/utils"

	"github.com/kataras/iris/v12"
)

func AdminListUsers(ctx iris.Context) {
	var users []models.User
	if err := storage.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(users)
}

func AdminBlockUser(ctx iris.Context) {
	userID := ctx.Params().GetUintDefault("id", 0)

	user, err := adminService.BlockUser(actorFromCtx(ctx), userID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(user)
}

func AdminUnblockUser(ctx iris.Context) {
	userID := ctx.Params().GetUintDefault("id", 0)

	user, err := adminService.UnblockUser(actorFromCtx(ctx), userID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(user)
}

func AdminDeleteUser(ctx iris.Context) {
	userID := ctx.Params().GetUintDefault("id", 0)

	if err := adminService.DeleteUser(actorFromCtx(ctx), userID); err != nil {
		handleServiceError(err, ctx)
		return
	}

	invalidatePropertyCache()
	ctx.JSON(iris.Map{"message": "User deleted"})
}

func AdminListPendingProperties(ctx iris.Context) {
	properties, err := adminService.ListPendingProperties(actorFromCtx(ctx))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(properties)
}

func AdminApproveProperty(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)

	property, err := adminService.ApproveProperty(actorFromCtx(ctx), propertyID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	invalidatePropertyCache()
	ctx.JSON(property)
}

// AdminRejectProperty declines a pending listing; a rejected listing is
// removed outright rather than kept around.
func AdminRejectProperty(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)

	if err := adminService.RejectProperty(actorFromCtx(ctx), propertyID); err != nil {
		handleServiceError(err, ctx)
		return
	}

	invalidatePropertyCache()
	ctx.JSON(iris.Map{"message": "Property rejected"})
}

func AdminStats(ctx iris.Context) {
	stats, err := adminService.Stats(actorFromCtx(ctx))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(stats)
}
